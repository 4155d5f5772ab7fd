// Package orchestrator owns the per-event generation pipeline: intent
// parsing, file acquisition, reference-asset selection, the external
// generation call, post-processing, delivery, remote persistence and
// cleanup. One request per accepted event; branches for individual
// attached files are fenced so one file's failure never touches its
// siblings.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/ben-gunnels/advert-bot/internal/catalog"
	"github.com/ben-gunnels/advert-bot/internal/chat"
	"github.com/ben-gunnels/advert-bot/internal/generator"
	"github.com/ben-gunnels/advert-bot/internal/intent"
	"github.com/ben-gunnels/advert-bot/internal/model"
	"github.com/ben-gunnels/advert-bot/internal/workdir"
)

// chatClient is the orchestrator's view of the chat platform.
type chatClient interface {
	SendMessage(ctx context.Context, channelID, text string) error
	SendFile(ctx context.Context, channelID, localPath string) error
	DownloadFile(ctx context.Context, url, localDest string) error
}

// referenceLocator resolves a reference-model asset into a local path.
type referenceLocator interface {
	SelectReference(ctx context.Context, sel catalog.Selector, localDest string) (string, error)
}

// artifactStore persists generated outputs to the remote folder.
type artifactStore interface {
	StoreFile(ctx context.Context, localPath, folderID string) (string, error)
}

// backend is the external image-generation service.
type backend interface {
	Generate(ctx context.Context, prompt string, inputImage, referenceImage []byte) ([]byte, error)
}

// postProcessor reformats generated bytes for delivery.
type postProcessor interface {
	Process(src []byte) ([]byte, error)
}

// Orchestrator sequences the generation pipeline for accepted events.
// Safe for concurrent use; every request stages its files under
// request-scoped names so concurrent events never share a slot.
type Orchestrator struct {
	catalog   *catalog.Catalog
	chat      chatClient
	locator   referenceLocator
	store     artifactStore
	backend   backend
	processor postProcessor
	dirs      *workdir.Dirs
}

// New wires an Orchestrator from its collaborators.
func New(
	c *catalog.Catalog,
	ch chatClient,
	l referenceLocator,
	s artifactStore,
	b backend,
	p postProcessor,
	dirs *workdir.Dirs,
) *Orchestrator {
	return &Orchestrator{
		catalog:   c,
		chat:      ch,
		locator:   l,
		store:     s,
		backend:   b,
		processor: p,
		dirs:      dirs,
	}
}

// request is the working state derived from one accepted event. It
// never outlives the handling of that event.
type request struct {
	id       string
	event    model.Event
	flags    intent.Flags
	selector catalog.Selector
	folderID string
}

// Handle runs the full pipeline for one accepted event. Attached files
// are handled sequentially and independently; the returned error joins
// the per-branch failures for the observability sink, all of which have
// already been reported to the user.
func (o *Orchestrator) Handle(ctx context.Context, ev model.Event) error {
	folderID, ok := o.catalog.FolderFor(ev.Channel)
	if !ok {
		// The router screens channels; reaching here means a wiring bug.
		return fmt.Errorf("no destination folder for channel %s", ev.Channel)
	}

	req := request{
		id:       uuid.NewString()[:8],
		event:    ev,
		flags:    intent.ParseFlags(ev.Text),
		folderID: folderID,
	}

	if req.flags.Attributes {
		req.selector = o.catalog.Classify(intent.ExtractAttributes(ev.Text))
	}

	zlog.Logger.Info().
		Str("request", req.id).
		Str("kind", ev.Kind).
		Str("channel", ev.Channel).
		Str("user", ev.User).
		Int("files", len(ev.Files)).
		Msg("handling event")

	if req.flags.Help {
		o.say(ctx, req, chat.HelpMessage(ev.User))
	}

	if len(ev.Files) == 0 {
		o.say(ctx, req, chat.MsgFilesNotShared)
		return nil
	}

	var errs []error
	for i, f := range ev.Files {
		if err := o.handleFile(ctx, req, i+1, f); err != nil {
			zlog.Logger.Err(err).
				Str("request", req.id).
				Msg("file branch failed")
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// handleFile runs one attached file through acquisition, generation,
// delivery and persistence. Every failure is reported to the user before
// returning; local files are removed on the way out no matter what.
func (o *Orchestrator) handleFile(ctx context.Context, req request, branch int, f model.FileRef) error {
	ext := strings.ToLower(f.Filetype)
	if ext == "" {
		ext = "png"
	}

	// Staging slots are keyed by request id and branch number so
	// concurrent events, and sibling files within one event, never
	// share a path.
	stamp := time.Now().Format("2006-01-02-15-04-05")
	inputPath := filepath.Join(o.dirs.Inputs, fmt.Sprintf("%s_%s_%d.%s", stamp, req.id, branch, ext))
	modelPath := filepath.Join(o.dirs.Models, fmt.Sprintf("model_%s_%d.png", req.id, branch))

	base := strings.TrimSuffix(filepath.Base(inputPath), "."+ext)
	outputPath := filepath.Join(o.dirs.Outputs, fmt.Sprintf("gen_image_%s.png", base))

	defer cleanup(inputPath, outputPath, modelPath)

	// Acquisition.
	if err := o.chat.DownloadFile(ctx, f.URLPrivate, inputPath); err != nil {
		o.say(ctx, req, chat.GeneratorError(err))
		return fmt.Errorf("download: %w", err)
	}
	o.verbose(ctx, req, chat.MsgDownloadComplete)

	o.say(ctx, req, chat.GeneratorConfirmation(filepath.Base(outputPath)))
	o.verbose(ctx, req, chat.MsgVerboseOn)

	// Prompt construction.
	var injection string
	if req.flags.Inject {
		injection = intent.CleanText(req.event.Text)
	}
	prompt := generator.BuildPrompt(injection)
	o.verbose(ctx, req, chat.MsgPromptGenerated)
	o.verbose(ctx, req, prompt)

	// Reference selection.
	remote, err := o.locator.SelectReference(ctx, req.selector, modelPath)
	if err != nil {
		o.say(ctx, req, chat.GeneratorError(err))
		return fmt.Errorf("select reference: %w", err)
	}
	zlog.Logger.Info().
		Str("request", req.id).
		Str("asset", remote).
		Msg("reference model resolved")
	o.verbose(ctx, req, chat.MsgModelResolved)

	// Generation.
	inputBytes, err := os.ReadFile(inputPath)
	if err != nil {
		o.say(ctx, req, chat.GeneratorError(err))
		return fmt.Errorf("read input: %w", err)
	}
	refBytes, err := os.ReadFile(modelPath)
	if err != nil {
		o.say(ctx, req, chat.GeneratorError(err))
		return fmt.Errorf("read reference: %w", err)
	}

	generated, err := o.backend.Generate(ctx, prompt, inputBytes, refBytes)
	if err != nil {
		o.say(ctx, req, chat.GeneratorError(err))
		return fmt.Errorf("generate: %w", err)
	}
	o.verbose(ctx, req, chat.MsgImageGenerated)

	// Post-processing.
	processed, err := o.processor.Process(generated)
	if err != nil {
		o.say(ctx, req, chat.GeneratorError(err))
		return fmt.Errorf("postprocess: %w", err)
	}
	o.verbose(ctx, req, chat.MsgImageResized)

	if err := os.WriteFile(outputPath, processed, 0o644); err != nil {
		o.say(ctx, req, chat.GeneratorError(err))
		return fmt.Errorf("write output: %w", err)
	}

	// Delivery.
	o.verbose(ctx, req, chat.MsgTrySending)
	if err := o.chat.SendFile(ctx, req.event.Channel, outputPath); err != nil {
		o.say(ctx, req, chat.GeneratorError(err))
		return fmt.Errorf("deliver: %w", err)
	}

	// Remote persistence. Failure here is a warning only: the image has
	// already reached the channel and that is not rolled back.
	o.say(ctx, req, chat.MsgAttemptingUpload)
	stored, err := o.store.StoreFile(ctx, outputPath, req.folderID)
	if err != nil {
		zlog.Logger.Err(err).
			Str("request", req.id).
			Msg("remote persistence failed")
		o.say(ctx, req, chat.UploadFailed(err))
		return nil
	}

	zlog.Logger.Info().
		Str("request", req.id).
		Str("path", stored).
		Msg("output persisted")
	o.say(ctx, req, chat.MsgUploadSuccessful)

	return nil
}

// say posts a message to the request's channel, logging delivery
// failures instead of propagating them.
func (o *Orchestrator) say(ctx context.Context, req request, text string) {
	if err := o.chat.SendMessage(ctx, req.event.Channel, text); err != nil {
		zlog.Logger.Err(err).
			Str("request", req.id).
			Msg("failed to send chat message")
	}
}

// verbose posts a step notice when the verbose flag is set.
func (o *Orchestrator) verbose(ctx context.Context, req request, text string) {
	if req.flags.Verbose {
		o.say(ctx, req, text)
	}
}

// cleanup removes the branch's local files. Best effort; never fails.
func cleanup(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			zlog.Logger.Warn().Err(err).Str("path", p).Msg("failed to remove staged file")
		}
	}
}

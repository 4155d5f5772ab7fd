package chat

import "fmt"

// Fixed catalog of outbound bot messages. Wording is presentation only;
// the orchestrator cares about trigger conditions and ordering.

const (
	// MsgFilesNotShared is sent when a mention carries no attachment.
	MsgFilesNotShared = "No file was submitted with your message. Attach an image of your design and mention me again."

	// Verbose step notices.
	MsgDownloadComplete = "Your file has been downloaded."
	MsgPromptGenerated  = "A prompt has been generated for your design."
	MsgModelResolved    = "A reference model has been selected."
	MsgImageGenerated   = "Your image has been generated."
	MsgImageResized     = "Your image has been resized."
	MsgTrySending       = "Sending your image now..."
	MsgVerboseOn        = "Verbose mode is on. I will keep you posted at each step."

	// MsgAttemptingUpload announces the remote persistence attempt.
	MsgAttemptingUpload = "Attempting to save your image to the shared folder..."

	// MsgUploadSuccessful confirms remote persistence.
	MsgUploadSuccessful = "Your image has been saved to the shared folder."
)

// HelpMessage greets the user and documents the supported flags and the
// attribute selector syntax.
func HelpMessage(user string) string {
	return fmt.Sprintf(
		"Hi <@%s>! Attach an image of your design and mention me to get a T-shirt mockup.\n"+
			"Flags: --verbose (step-by-step feedback), --help (this message), "+
			"--inject (append your message text to the prompt), --attributes (choose a model).\n"+
			"With --attributes, pick a model like {female, red}: sex is male or female, "+
			"shirt color is white, black, red or blue.",
		user,
	)
}

// GeneratorConfirmation announces that generation of the named output
// has started.
func GeneratorConfirmation(name string) string {
	return fmt.Sprintf("Generating %s — this can take a minute.", name)
}

// GeneratorError reports a failed branch to the user with the
// underlying cause.
func GeneratorError(err error) string {
	return fmt.Sprintf("Image generation could not be completed: %v", err)
}

// UploadFailed reports a failed remote persistence attempt. Delivery to
// the channel has already happened by the time this is sent.
func UploadFailed(err error) string {
	return fmt.Sprintf("Your image was sent, but saving it to the shared folder failed: %v", err)
}

package events

import (
	"github.com/wb-go/wbf/zlog"

	"github.com/ben-gunnels/advert-bot/internal/model"
)

// channelSet is the router's view of the channel allow-list.
type channelSet interface {
	KnownChannel(channel string) bool
}

// Router classifies inbound events and discards anything unrecognized.
// Rejection is silent and permanent for that event; the transport layer,
// not the router, decides whether to redeliver.
type Router struct {
	kinds    map[string]struct{}
	channels channelSet
}

// NewRouter builds a Router over the recognized event kinds and the
// channel allow-list.
func NewRouter(kinds []string, channels channelSet) *Router {
	ks := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		ks[k] = struct{}{}
	}
	return &Router{kinds: ks, channels: channels}
}

// Accept reports whether the event should be handled. It has no side
// effects beyond a debug log on rejection.
func (r *Router) Accept(ev model.Event) bool {
	if !r.channels.KnownChannel(ev.Channel) {
		zlog.Logger.Debug().
			Str("channel", ev.Channel).
			Msg("dropping event from unlisted channel")
		return false
	}

	if _, ok := r.kinds[ev.Kind]; !ok {
		zlog.Logger.Debug().
			Str("kind", ev.Kind).
			Msg("dropping event of unrecognized kind")
		return false
	}

	return true
}

// Package resolver turns raw visit requests into complete click events.
//
// Every field is resolved with the same precedence: explicit request value
// first, then the side-channel caches the bot maintains, then a computed
// fallback. Resolution never fails; only persistence can.
package resolver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/engagekit/engagement-tracker/internal/domain"
	"github.com/engagekit/engagement-tracker/internal/sidechannel"
)

// xHosts are the hosts accepted when deriving an X handle from a link URL.
var xHosts = map[string]bool{
	"x.com":           true,
	"www.x.com":       true,
	"twitter.com":     true,
	"www.twitter.com": true,
}

// ClickStore persists resolved click events.
type ClickStore interface {
	Save(ctx context.Context, event domain.ClickEvent) error
}

// LinkSource is a read-only lookup of link metadata by post number.
type LinkSource interface {
	Link(postNum int64) (sidechannel.LinkMeta, bool)
}

// VisitorSource is a read-only lookup of visitor identities by Telegram id.
type VisitorSource interface {
	Visitor(tgID int64) (sidechannel.VisitorIdentity, bool)
}

// VisitRequest is a raw, possibly partial, inbound visit. TgID is validated
// by the boundary layer; everything else is optional.
type VisitRequest struct {
	TgID       int64
	PostNum    int64
	SessionNum int64

	// Explicit overrides from the request; empty means unset.
	TargetURL  string
	TgUsername string
	XUsername  string
}

// Resolver resolves visit requests and records the attributed clicks.
type Resolver struct {
	store       ClickStore
	links       LinkSource
	visitors    VisitorSource
	fallbackURL string
}

// New creates a Resolver. links and visitors may be backed by empty caches;
// the resolver degrades to computed fallbacks.
func New(store ClickStore, links LinkSource, visitors VisitorSource, fallbackURL string) *Resolver {
	return &Resolver{
		store:       store,
		links:       links,
		visitors:    visitors,
		fallbackURL: fallbackURL,
	}
}

// ResolveTarget resolves only the redirect destination, without recording
// anything. The result is never empty.
func (r *Resolver) ResolveTarget(req VisitRequest) string {
	target, _ := r.resolveTarget(req)
	return target
}

// Track resolves the visit, records the click, and returns the redirect
// target. The target is valid even when err is non-nil: a persistence
// failure must not cost the visitor their redirect.
//
// A visit by the post's own poster is redirected but never recorded.
func (r *Resolver) Track(ctx context.Context, req VisitRequest) (string, error) {
	target, meta := r.resolveTarget(req)

	if selfClick(meta, req.TgID) {
		return target, nil
	}

	event := domain.ClickEvent{
		SessionNum: req.SessionNum,
		PostNum:    req.PostNum,
		TgID:       req.TgID,
		TgUsername: r.resolveLabel(req),
		XUsername:  r.resolveXUsername(req, meta, target),
		XLink:      target,
	}

	if err := r.store.Save(ctx, event); err != nil {
		return target, fmt.Errorf("record click: %w", err)
	}

	return target, nil
}

// resolveTarget picks the redirect destination and returns it together with
// whatever link metadata the cache held for the post.
func (r *Resolver) resolveTarget(req VisitRequest) (string, *sidechannel.LinkMeta) {
	var meta *sidechannel.LinkMeta
	if m, ok := r.links.Link(req.PostNum); ok {
		meta = &m
	}

	if req.TargetURL != "" {
		return req.TargetURL, meta
	}
	if meta != nil && meta.XLink != "" {
		return meta.XLink, meta
	}
	return r.fallbackURL, meta
}

// selfClick reports whether the visit comes from the user who posted the link.
func selfClick(meta *sidechannel.LinkMeta, tgID int64) bool {
	return meta != nil && meta.PosterID != 0 && meta.PosterID == tgID
}

// resolveLabel picks the tg_username display value.
func (r *Resolver) resolveLabel(req VisitRequest) string {
	if req.TgUsername != "" {
		return req.TgUsername
	}
	if identity, ok := r.visitors.Visitor(req.TgID); ok {
		if label := identity.Label(); label != "" {
			return label
		}
	}
	return fmt.Sprintf("User %d", req.TgID)
}

// resolveXUsername picks the attributed X handle and normalizes it to carry
// exactly one leading "@", unless it resolves to the Unknown sentinel.
func (r *Resolver) resolveXUsername(req VisitRequest, meta *sidechannel.LinkMeta, target string) string {
	handle := strings.TrimPrefix(req.XUsername, "@")

	if handle == "" && meta != nil {
		handle = strings.TrimPrefix(meta.XUsername, "@")
	}
	if handle == "" {
		handle = handleFromURL(target)
	}
	if handle == "" || handle == domain.UnknownHandle {
		return domain.UnknownHandle
	}
	return "@" + handle
}

// handleFromURL derives an X handle from a link URL: the host must belong to
// X and the handle is the first non-empty path segment. Returns "" otherwise.
func handleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if !xHosts[strings.ToLower(u.Hostname())] {
		return ""
	}

	for _, segment := range strings.Split(u.Path, "/") {
		if segment != "" {
			return strings.TrimPrefix(segment, "@")
		}
	}
	return ""
}

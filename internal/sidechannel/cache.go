// Package sidechannel holds the in-process hint caches populated by the
// posting bot. The caches are best-effort: the tracker must resolve and
// record clicks with fallback values when they are empty or stale.
package sidechannel

import (
	"strings"
	"sync"
)

// LinkMeta describes a tracked post's outbound link as recorded by the bot
// when it published the post.
type LinkMeta struct {
	// XLink is the full URL of the X post or profile the tracked link points at.
	XLink string
	// PosterID is the Telegram id of the user who submitted the link.
	// A visit by the poster themselves is redirected but never recorded.
	PosterID int64
	// XUsername is the attributed X handle, with or without a leading "@".
	XUsername string
}

// VisitorIdentity is cached display information for a Telegram user.
type VisitorIdentity struct {
	Username  string
	FirstName string
	LastName  string
}

// Label returns the display form used for tg_username: the "@" handle when
// the identity carries one, otherwise the full name. Empty when neither is set.
func (v VisitorIdentity) Label() string {
	if v.Username != "" {
		return "@" + strings.TrimPrefix(v.Username, "@")
	}
	return strings.TrimSpace(v.FirstName + " " + v.LastName)
}

// Cache is a concurrency-safe store for link metadata and visitor identities.
// The bot writes, the resolver only reads.
type Cache struct {
	mu       sync.RWMutex
	links    map[int64]LinkMeta
	visitors map[int64]VisitorIdentity
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		links:    make(map[int64]LinkMeta),
		visitors: make(map[int64]VisitorIdentity),
	}
}

// SetLink records link metadata for a post.
func (c *Cache) SetLink(postNum int64, meta LinkMeta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links[postNum] = meta
}

// Link returns the link metadata for a post, if any.
func (c *Cache) Link(postNum int64) (LinkMeta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.links[postNum]
	return meta, ok
}

// SetVisitor records display information for a Telegram user.
func (c *Cache) SetVisitor(tgID int64, identity VisitorIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visitors[tgID] = identity
}

// Visitor returns the cached identity for a Telegram user, if any.
func (c *Cache) Visitor(tgID int64) (VisitorIdentity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	identity, ok := c.visitors[tgID]
	return identity, ok
}

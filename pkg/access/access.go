package access

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
)

// AllCenters is the credential center value granting administrator scope.
const AllCenters = "ALL"

var ErrNoAccess = errors.New("no access context")

// Context is the caller's scope for one request. CenterOverride narrows an administrator's
// view to one center and is ignored for everybody else.
type Context struct {
	Username        string `json:"username"`
	Center          string `json:"center"`
	IsAdministrator bool   `json:"isAdministrator"`
	CenterOverride  string `json:"centerOverride,omitempty"`
}

func NewContext(username, center string) Context {
	return Context{
		Username:        username,
		Center:          center,
		IsAdministrator: IsAllCenters(center),
	}
}

func IsAllCenters(center string) bool {
	return strings.ToUpper(strings.TrimSpace(center)) == AllCenters
}

// WithOverride returns a copy narrowed to center. Non-administrators are returned unchanged.
func (c Context) WithOverride(center string) Context {
	if !c.IsAdministrator {
		return c
	}
	c.CenterOverride = strings.TrimSpace(center)
	return c
}

// EffectiveCenter is the center the caller currently sees, or "" for all centers.
func (c Context) EffectiveCenter() string {
	if c.IsAdministrator {
		return c.CenterOverride
	}
	return c.Center
}

// Unrestricted reports whether the caller sees every center.
func (c Context) Unrestricted() bool {
	return c.IsAdministrator && c.CenterOverride == ""
}

type contextKey string

const accessKey contextKey = "access"

func WithContext(ctx context.Context, acc Context) context.Context {
	return context.WithValue(ctx, accessKey, acc)
}

// Current retrieves the access context stored by the session middleware.
func Current(ctx context.Context) (Context, error) {
	acc, ok := ctx.Value(accessKey).(Context)
	if !ok {
		log.Trace("access context not found")
		return Context{}, ErrNoAccess
	}
	return acc, nil
}

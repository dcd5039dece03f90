package cart

import (
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/google/uuid"
)

// Owner identifies whose cart is addressed: "user:<uid>" or "guest:<session>".
type Owner string

const (
	userOwnerPrefix  = "user:"
	guestOwnerPrefix = "guest:"
)

// UserOwner returns the cart owner of an authenticated Firebase user.
func UserOwner(uid string) Owner {
	return Owner(userOwnerPrefix + strings.TrimSpace(uid))
}

// GuestOwner returns the cart owner of a guest session. The session id must be a UUID.
func GuestOwner(session string) (Owner, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(session))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cart session must be a uuid").
			WithDetails(map[string]any{"field": "X-Cart-Session"})
	}
	return Owner(guestOwnerPrefix + parsed.String()), nil
}

// IsGuest reports whether the owner is a guest session.
func (o Owner) IsGuest() bool {
	return strings.HasPrefix(string(o), guestOwnerPrefix)
}

func (o Owner) String() string {
	return string(o)
}

func (o Owner) validate() error {
	s := string(o)
	switch {
	case strings.HasPrefix(s, userOwnerPrefix) && len(s) > len(userOwnerPrefix):
		return nil
	case strings.HasPrefix(s, guestOwnerPrefix) && len(s) > len(guestOwnerPrefix):
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid cart owner %q", s))
}

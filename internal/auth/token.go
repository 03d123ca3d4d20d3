package auth

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"medadmin/m/domain"
)

// DecodeToken reads the claims of an issued token. The signature is not
// checked here; the API verifies it on every request.
func DecodeToken(token string) (domain.User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return domain.User{}, fmt.Errorf("decode token: %w", err)
	}

	u := domain.User{
		ID:         claimString(claims["id"]),
		LoginName:  claimString(claims["login_name"]),
		SchoolID:   claimString(claims["school_id"]),
		SchoolCode: claimString(claims["school_code"]),
		Type:       domain.EntityType(claimString(claims["type"])),
		Roles:      []string{},
	}
	if roles, ok := claims["roles"].([]any); ok {
		for _, r := range roles {
			if s := claimString(r); s != "" {
				u.Roles = append(u.Roles, s)
			}
		}
	}
	return u, nil
}

func claimString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const actorContextKey contextKey = "actor"

const (
	RoleAdmin       = "admin"
	RoleParticipant = "participant"
)

// Actor - аутентифицированная сторона запроса: админ или участник.
type Actor struct {
	ID   string
	Role string
	Name string
}

type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// Authenticate разбирает Bearer-токен, проверяет подпись и кладёт Actor
// в контекст запроса.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		actor, err := actorFromClaims(claims)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize пропускает запрос только при совпадении роли актора.
func Authorize(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := GetActorFromContext(r.Context())
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if role == actor.Role {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

func GetActorFromContext(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(actorContextKey).(Actor)
	if !ok {
		return Actor{}, errors.New("actor not found in context or invalid type")
	}
	return actor, nil
}

func actorFromClaims(claims jwt.MapClaims) (Actor, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Actor{}, errors.New("missing 'sub' claim in token")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return Actor{}, errors.New("missing 'role' claim in token")
	}
	switch role {
	case RoleAdmin, RoleParticipant:
	default:
		return Actor{}, fmt.Errorf("invalid role value in claim: %q", role)
	}

	name, _ := claims["name"].(string)
	return Actor{ID: sub, Role: role, Name: name}, nil
}

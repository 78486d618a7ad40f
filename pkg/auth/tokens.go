package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
)

const tokenCookieName = "slask-user"

type Claims struct {
	UserId   string
	Email    string
	FullName string
}

func (a *Server) createToken(user *User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"sub":   user.Id,
			"email": user.Email,
			"name":  user.FullName,
			"exp":   time.Now().Add(time.Hour * 24).Unix(),
		})
	return token.SignedString(a.serverKey)
}

func (a *Server) parseJwt(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.serverKey, nil
	})
}

func (a *Server) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(time.Hour * 24),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (a *Server) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   tokenCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// UserFromRequest resolves the signed in user from the token cookie,
// returning nil claims for anonymous requests. The check is synchronous,
// there is no pending state to wait out.
func (a *Server) UserFromRequest(r *http.Request) *Claims {
	cookie, err := r.Cookie(tokenCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	token, err := a.parseJwt(cookie.Value)
	if err != nil || !token.Valid {
		return nil
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	claims := &Claims{}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.UserId = sub
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := mapClaims["name"].(string); ok {
		claims.FullName = name
	}
	if claims.UserId == "" {
		return nil
	}
	return claims
}

type contextKey string

const claimsContextKey = contextKey("claims")

// ClaimsFromContext returns the claims RequireAuth stored on the request
// context.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

// RequireAuth rejects anonymous requests with 401 and puts the claims on
// the context for the wrapped handler.
func (a *Server) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := a.UserFromRequest(r)
		if claims == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RedirectIfAuthenticated sends signed in users away from auth pages.
func (a *Server) RedirectIfAuthenticated(redirectTo string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.UserFromRequest(r) != nil {
			http.Redirect(w, r, redirectTo, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}

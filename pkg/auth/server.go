package auth

import (
	"encoding/json"
	"net/http"

	"github.com/matst80/slask-store/pkg/common"
)

// Server is the authentication gate: email/password accounts, Google
// OAuth, a JWT session cookie and the guard middleware the protected
// surfaces use.
type Server struct {
	Users     *UserStore
	serverKey []byte
	google    *GoogleAuth
}

func NewServer(users *UserStore, tokenSecret []byte, google *GoogleAuth) *Server {
	return &Server{
		Users:     users,
		serverKey: tokenSecret,
		google:    google,
	}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	Id       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func (a *Server) signedInResponse(w http.ResponseWriter, r *http.Request, user *User) {
	token, err := a.createToken(user)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a.setTokenCookie(w, token)
	common.DefaultHeaders(w, r, "0")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(userResponse{
		Id:       user.Id,
		Email:    user.Email,
		FullName: user.FullName,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (a *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	user, err := a.Users.CreateUser(req.Email, req.Password, req.FullName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a.signedInResponse(w, r, user)
}

func (a *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	user, err := a.Users.Authenticate(req.Email, req.Password)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	a.signedInResponse(w, r, user)
}

func (a *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	a.clearTokenCookie(w)
	w.WriteHeader(http.StatusOK)
}

// CurrentUser is the session retrieval endpoint: 204 for anonymous
// visitors, the claims otherwise.
func (a *Server) CurrentUser(w http.ResponseWriter, r *http.Request) {
	claims := a.UserFromRequest(r)
	if claims == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	common.DefaultHeaders(w, r, "0")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(userResponse{
		Id:       claims.UserId,
		Email:    claims.Email,
		FullName: claims.FullName,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (a *Server) AuthHandler() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /signup", a.RedirectIfAuthenticated("/profile", a.SignUp))
	mux.HandleFunc("POST /signin", a.RedirectIfAuthenticated("/profile", a.SignIn))
	mux.HandleFunc("POST /signout", a.SignOut)
	mux.HandleFunc("GET /user", a.CurrentUser)
	if a.google != nil {
		mux.HandleFunc("GET /google", a.GoogleLogin)
		mux.HandleFunc("GET /google/callback", a.GoogleCallback)
	}
	return mux
}

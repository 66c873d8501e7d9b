package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/isdelr/recipes-be/internal/auth"
	"github.com/isdelr/recipes-be/internal/services"
	"github.com/rs/zerolog/log"
)

const msgInvalidPassword = "Password can only comprise of alphanumeric values & an underscore and between 6 to 25 characters long"

// AuthHandler handles HTTP requests for accounts and sessions.
type AuthHandler struct {
	users     services.UserServiceProvider
	blacklist services.BlacklistServiceProvider
	tokens    *auth.TokenManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, blacklist services.BlacklistServiceProvider, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, blacklist: blacklist, tokens: tokens}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ResetPasswordPayload defines the structure for password reset requests.
type ResetPasswordPayload struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var p RegisterPayload
	if !decodeJSON(w, r, &p) ||
		!requireField(w, "username", p.Username) ||
		!requireField(w, "password", p.Password) ||
		!requireField(w, "email", p.Email) {
		return
	}

	_, err := h.users.CreateUser(r.Context(), p.Username, p.Email, p.Password)
	switch {
	case err == nil:
		respondMessage(w, http.StatusCreated, "Account was successfully created")
	case errors.Is(err, services.ErrInvalidUsername):
		respondMessage(w, http.StatusBadRequest, fmt.Sprintf("%s is not a valid username. It should comprise of alphanumeric values & an underscore.", p.Username))
	case errors.Is(err, services.ErrInvalidPassword):
		respondMessage(w, http.StatusBadRequest, msgInvalidPassword)
	case errors.Is(err, services.ErrInvalidEmail):
		respondMessage(w, http.StatusBadRequest, fmt.Sprintf("%s is not a valid email. It should comprise of alphanumeric values & a dot as well other standard email conventions", p.Email))
	case errors.Is(err, services.ErrUsernameTaken):
		respondMessage(w, http.StatusConflict, fmt.Sprintf("The username %s already exists", p.Username))
	case errors.Is(err, services.ErrEmailTaken):
		respondMessage(w, http.StatusConflict, fmt.Sprintf("The email %s already exists", p.Email))
	case errors.Is(err, services.ErrConflict):
		respondMessage(w, http.StatusConflict, "Account already exists")
	default:
		log.Error().Err(err).Str("username", p.Username).Msg("Failed to register user")
		respondInternal(w)
	}
}

// Login handles user authentication and JWT generation.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var p LoginPayload
	if !decodeJSON(w, r, &p) ||
		!requireField(w, "username", p.Username) ||
		!requireField(w, "password", p.Password) {
		return
	}

	user, err := h.users.AuthenticateUser(r.Context(), p.Username, p.Password)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		respondMessage(w, http.StatusUnauthorized, "Username does not exist, signup")
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		log.Warn().Str("username", p.Username).Msg("Failed authentication attempt")
		respondMessage(w, http.StatusUnauthorized, "Credentials do not match, try again")
		return
	case err != nil:
		log.Error().Err(err).Str("username", p.Username).Msg("Failed to authenticate user")
		respondInternal(w)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to generate JWT")
		respondInternal(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":       "successful Login",
		"message":      "You have been signed in",
		"access_token": token,
	})
}

// Logout revokes the token used for the request.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.blacklist.Revoke(r.Context(), claims.ID); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to revoke token")
		respondInternal(w)
		return
	}
	respondMessage(w, http.StatusOK, "Successfully logged out")
}

// ResetPassword changes the authenticated user's password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	var p ResetPasswordPayload
	if !decodeJSON(w, r, &p) ||
		!requireField(w, "old_password", p.OldPassword) ||
		!requireField(w, "new_password", p.NewPassword) {
		return
	}

	err := h.users.UpdatePassword(r.Context(), userID, p.OldPassword, p.NewPassword)
	switch {
	case err == nil:
		respondMessage(w, http.StatusOK, "Password reset successfully")
	case errors.Is(err, services.ErrInvalidPassword):
		respondMessage(w, http.StatusBadRequest, msgInvalidPassword)
	case errors.Is(err, services.ErrInvalidCredentials):
		respondMessage(w, http.StatusUnauthorized, "The passwords did not match")
	case errors.Is(err, services.ErrUserNotFound):
		respondMessage(w, http.StatusUnauthorized, auth.MsgRevokedToken)
	default:
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to change password")
		respondInternal(w)
	}
}

// GetMe retrieves the currently authenticated user.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondMessage(w, http.StatusUnauthorized, auth.MsgRevokedToken)
			return
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to load user from token")
		respondInternal(w)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// DeleteAccount removes the authenticated user with everything they own and
// revokes the token.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondMessage(w, http.StatusUnauthorized, auth.MsgRevokedToken)
			return
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to delete user")
		respondInternal(w)
		return
	}
	if err := h.blacklist.Revoke(r.Context(), claims.ID); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to revoke token of deleted user")
	}
	respondMessage(w, http.StatusOK, "Account was deleted")
}

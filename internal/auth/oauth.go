package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"salon-service/internal/config"
	"salon-service/internal/domain/user"
	"salon-service/internal/repository"
	apperrors "salon-service/pkg/errors"
	"salon-service/pkg/token"
)

const (
	googleUserinfoURL    = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateCookieTTL       = 10 * time.Minute
	oauthExchangeTimeout = 15 * time.Second

	errStateMismatch     = "oauth state mismatch"
	errExchangeFailedFmt = "failed to exchange oauth code: %w"
	errUserinfoFailedFmt = "failed to fetch google userinfo: %w"
	errUserinfoStatusFmt = "google userinfo returned status %d"
)

type googleUserinfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// GoogleOAuth runs the authorization-code flow against Google and
// provisions or links local accounts from the returned profile.
type GoogleOAuth struct {
	config   *oauth2.Config
	userRepo repository.UserRepository
}

func NewGoogleOAuth(cfg *config.GoogleConfig, userRepo repository.UserRepository) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userRepo: userRepo,
	}
}

// Begin generates a state token and returns the Google consent URL.
// The caller stores the state in a short-lived cookie for the callback
// to compare against.
func (g *GoogleOAuth) Begin() (authURL, state string, err error) {
	state, err = token.GenerateStateToken()
	if err != nil {
		return "", "", apperrors.InternalServer("failed to generate oauth state", err)
	}
	return g.config.AuthCodeURL(state), state, nil
}

// StateCookie builds the cookie carrying the state token across the
// round-trip to Google.
func StateCookie(state string) *http.Cookie {
	return &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Callback validates the state, exchanges the code, fetches the Google
// profile, and resolves it to a local user. Accounts are matched by
// Google ID first, then by email (linking the Google ID), and created
// fresh otherwise. Google-verified emails count as verified here: the
// confirmation already happened out of band.
func (g *GoogleOAuth) Callback(ctx context.Context, gotState, wantState, code string) (*user.User, error) {
	if wantState == "" || gotState != wantState {
		return nil, apperrors.Unauthorized(errStateMismatch)
	}

	ctx, cancel := context.WithTimeout(ctx, oauthExchangeTimeout)
	defer cancel()

	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf(errExchangeFailedFmt, err)
	}

	info, err := g.fetchUserinfo(ctx, tok)
	if err != nil {
		return nil, err
	}

	return g.resolveUser(ctx, info)
}

func (g *GoogleOAuth) fetchUserinfo(ctx context.Context, tok *oauth2.Token) (*googleUserinfo, error) {
	resp, err := g.config.Client(ctx, tok).Get(googleUserinfoURL)
	if err != nil {
		return nil, fmt.Errorf(errUserinfoFailedFmt, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(errUserinfoStatusFmt, resp.StatusCode)
	}

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf(errUserinfoFailedFmt, err)
	}

	return &info, nil
}

func (g *GoogleOAuth) resolveUser(ctx context.Context, info *googleUserinfo) (*user.User, error) {
	existing, err := g.userRepo.GetByGoogleID(ctx, info.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	byEmail, err := g.userRepo.GetByEmail(ctx, info.Email)
	if err == nil {
		if linkErr := g.userRepo.LinkGoogleID(ctx, byEmail.ID, info.ID); linkErr != nil {
			return nil, linkErr
		}
		if info.VerifiedEmail && !byEmail.EmailVerified {
			if verifyErr := g.userRepo.MarkVerified(ctx, byEmail.ID); verifyErr != nil {
				return nil, verifyErr
			}
			byEmail.EmailVerified = true
		}
		googleID := info.ID
		byEmail.GoogleID = &googleID
		return byEmail, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	created, err := g.userRepo.CreateOAuth(ctx, user.CreateOAuthUserInput{
		Email:    info.Email,
		Name:     info.Name,
		GoogleID: info.ID,
	})
	if err != nil {
		return nil, err
	}

	if info.VerifiedEmail {
		if verifyErr := g.userRepo.MarkVerified(ctx, created.ID); verifyErr != nil {
			return nil, verifyErr
		}
		created.EmailVerified = true
	}

	return created, nil
}

package vlive

import (
	"context"
	"fmt"
	"net/url"

	"vlivedl/internal/httputil"
)

type loginInfo struct {
	Message struct {
		Login bool `json:"login"`
	} `json:"message"`
}

// Login signs the session in with an email account. Without both
// credentials it does nothing. The cookies it sets stay on the session.
func (e *Extractor) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	loginURL := e.opts.BaseURL + "/auth/email/login"

	if _, err := e.session.Page(ctx, httputil.Request{URL: loginURL}); err != nil {
		return fmt.Errorf("downloading login page: %w", err)
	}

	e.log.Debug().Str("email", email).Msg("logging in")
	_, err := e.session.Page(ctx, httputil.Request{
		URL:     loginURL,
		Referer: loginURL,
		Form:    url.Values{"email": {email}, "pwd": {password}},
	})
	if err != nil {
		return fmt.Errorf("submitting login: %w", err)
	}

	var info loginInfo
	err = e.session.DecodeJSON(ctx, httputil.Request{
		URL:     e.opts.BaseURL + "/auth/loginInfo",
		Referer: e.opts.BaseURL + "/home",
	}, &info)
	if err != nil {
		return fmt.Errorf("checking login state: %w", err)
	}
	if !info.Message.Login {
		return &AuthError{Reason: "invalid email or password"}
	}
	return nil
}

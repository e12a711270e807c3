package kugou

import (
	"context"
	"fmt"
	"net/url"
)

// AuthService drives the gateway's three-step QR login.
//
// The flow is: QRKey issues a login key, QRCreate exchanges it for a
// scannable QR payload, and QRCheck polls the scan state until the
// user confirms on their phone.
type AuthService struct {
	client *Client
}

// QRKey requests a fresh login key.
//
// Returns "" without an error when the gateway responds without a key;
// the caller decides whether that aborts the flow.
func (a *AuthService) QRKey(ctx context.Context) (string, error) {
	env, _, err := a.client.getJSON(ctx, "/login/qr/key", nil, "")
	if err != nil {
		return "", fmt.Errorf("qr key: %w", err)
	}

	key := env.First("data.qrcode", "data.key", "data.unikey", "key", "unikey").String()
	return key, nil
}

// QRCreate exchanges a login key for the QR payload: the login URL to
// encode and, when the gateway renders one, a base64 PNG of the code.
func (a *AuthService) QRCreate(ctx context.Context, key string) (QRCode, error) {
	params := url.Values{"key": {key}}

	env, _, err := a.client.getJSON(ctx, "/login/qr/create", params, "")
	if err != nil {
		return QRCode{}, fmt.Errorf("qr create: %w", err)
	}

	return QRCode{
		Key:         key,
		URL:         env.First("data.url", "url").String(),
		ImageBase64: env.First("data.qrimg", "data.image", "qrimg", "image").String(),
	}, nil
}

// QRCheck polls the scan state for a login key.
//
// Unrecognized response shapes yield Code -1, which callers treat as
// "keep polling". Set-Cookie headers from the response are surfaced
// verbatim; on a confirmed login they carry the full credential set.
func (a *AuthService) QRCheck(ctx context.Context, key string) (QRStatus, error) {
	params := url.Values{"key": {key}}

	env, header, err := a.client.getJSON(ctx, "/login/qr/check", params, "")
	if err != nil {
		return QRStatus{}, fmt.Errorf("qr check: %w", err)
	}

	code, ok := env.First("data.status", "status").Int()
	if !ok {
		code = -1
	}

	return QRStatus{
		Code:    code,
		Token:   env.First("data.token", "token", "data.cookie").String(),
		Cookies: header.Values("Set-Cookie"),
	}, nil
}

package remote

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Taxonomia de erro exposta ao chamador. Nenhum deles é fatal pra operação
// do ledger: o local é a fonte da verdade, o remoto é espelho
var (
	ErrAuth        = errors.New("remote credentials missing or rejected")
	ErrNotFound    = errors.New("remote path not found")
	ErrConflict    = errors.New("remote version conflict")
	ErrRateLimited = errors.New("remote rate limited")
)

// apiError traduz um status HTTP da API de conteúdo pra taxonomia local
func apiError(res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))

	switch res.StatusCode {
	case http.StatusUnauthorized:
		return ErrAuth
	case http.StatusForbidden:
		// a API devolve 403 tanto pra credencial sem permissão quanto pra
		// cota estourada; o header desambigua
		if res.Header.Get("X-RateLimit-Remaining") == "0" {
			return ErrRateLimited
		}
		return ErrAuth
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrConflict, body)
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("remote http %d: %s", res.StatusCode, body)
	}
}

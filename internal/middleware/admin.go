// Package middleware holds the HTTP middleware shared by the API routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/alisharafiiii/nabulines-backup/internal/util"
)

// WalletHeader carries the caller's wallet address on admin requests.
const WalletHeader = "x-wallet-address"

// AdminOnly rejects requests whose wallet header does not match the
// configured admin wallet. The comparison is case-insensitive since
// hex addresses appear in mixed checksum casings.
func AdminOnly(adminWallet string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wallet := r.Header.Get(WalletHeader)
			if wallet == "" {
				util.ErrorResponse(w, http.StatusBadRequest, "wallet address required")
				return
			}

			if !strings.EqualFold(wallet, adminWallet) {
				util.ErrorResponse(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

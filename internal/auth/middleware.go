package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type contextKey string

const BoardIDKey contextKey = "boardID"

// BoardMiddleware admits requests carrying a token for the board named by
// the {boardId} route variable. The token is read from a Bearer
// Authorization header or, for WebSocket upgrades, the token query
// parameter.
func (s *Service) BoardMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := tokenFromRequest(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing authorization"})
			return
		}

		boardID, err := s.ValidateToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		if want := mux.Vars(r)["boardId"]; want != "" && want != boardID {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "token is for another board"})
			return
		}

		ctx := context.WithValue(r.Context(), BoardIDKey, boardID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func BoardIDFromContext(ctx context.Context) string {
	boardID, _ := ctx.Value(BoardIDKey).(string)
	return boardID
}

func tokenFromRequest(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	token := r.URL.Query().Get("token")
	return token, token != ""
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

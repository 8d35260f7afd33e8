package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"bitcoin-auth-probe/auth"
	"bitcoin-auth-probe/common"
	"bitcoin-auth-probe/configs"
	"bitcoin-auth-probe/crypto/fingerprint"
	"bitcoin-auth-probe/crypto/key_secp256k1"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Server struct {
	ctx       context.Context
	cancelCtx context.CancelFunc

	redisClient *redis.Client
	logger      *logrus.Logger

	timePad time.Duration
	now     func() time.Time
}

type Option func(*Server)

// WithTimePad sets how far a token timestamp may drift from the server clock
func WithTimePad(d time.Duration) Option { return func(s *Server) { s.timePad = d } }

func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

type ctxKey struct{}

func NewServer(ctx context.Context, redisClient *redis.Client, logger *logrus.Logger, opts ...Option) *Server {
	ctx, cancelCtx := context.WithCancel(ctx)
	s := &Server{
		ctx:         ctx,
		cancelCtx:   cancelCtx,
		redisClient: redisClient,
		logger:      logger,
		timePad:     configs.DefaultTimePad,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle(configs.ProbeRequestPath, s.Authenticate(http.HandlerFunc(s.HandleTest))).Methods(http.MethodPost)
	return r
}

func (s *Server) Close() {
	s.cancelCtx()
	s.redisClient.Close()
}

// Authenticate verifies the auth token header against the request path and body,
// and refuses any token it has already accepted
func (s *Server) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(configs.AuthTokenHeader)
		if token == "" {
			s.writeError(w, http.StatusUnauthorized, "missing auth token")
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, configs.MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.logger.Warnf("Body over %d bytes for %s", tooLarge.Limit, r.URL.Path)
				s.writeError(w, http.StatusRequestEntityTooLarge, "body too large")
				return
			}
			s.logger.Errorf("Error reading body for %s: %v", r.URL.Path, err)
			s.writeError(w, http.StatusBadRequest, "unreadable body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		tok, err := auth.ParseAuthToken(token)
		if err != nil {
			s.logger.Warnf("Rejected token for %s: %v", r.URL.Path, err)
			s.writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		target := auth.Target{RequestPath: r.URL.Path, Timestamp: s.now(), Body: string(body)}
		if err := tok.Verify(target, s.timePad); err != nil {
			s.logger.Warnf("Rejected token from %s for %s: %v", tok.PubKey, r.URL.Path, err)
			s.writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		replayKey, err := tok.ReplayKey(target)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		fresh, err := s.redisClient.SetNX(r.Context(), fmt.Sprintf(configs.ServerSeenTokenKey, replayKey), tok.PubKey, 2*s.timePad).Result()
		if err != nil {
			s.logger.Errorf("Error recording token from %s: %v", tok.PubKey, err)
			s.writeError(w, http.StatusInternalServerError, "replay check failed")
			return
		}
		if !fresh {
			s.logger.Warnf("Replayed token from %s for %s", tok.PubKey, r.URL.Path)
			s.writeError(w, http.StatusUnauthorized, "token already used")
			return
		}

		s.logger.WithField("fingerprint", s.fingerprint(tok)).Infof("Authenticated %s for %s", tok.PubKey, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, tok)))
	})
}

// TokenFromContext returns the token Authenticate accepted for this request
func TokenFromContext(ctx context.Context) (*auth.Token, bool) {
	tok, ok := ctx.Value(ctxKey{}).(*auth.Token)
	return tok, ok
}

func (s *Server) HandleTest(w http.ResponseWriter, r *http.Request) {
	tok, ok := TokenFromContext(r.Context())
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req common.TestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Errorf("Error decoding body from %s: %v", tok.PubKey, err)
		s.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(common.TestResponse{PubKey: tok.PubKey, Message: req.Message}); err != nil {
		s.logger.Errorf("Error encoding response for %s: %v", tok.PubKey, err)
	}
}

func (s *Server) fingerprint(tok *auth.Token) string {
	pubK, err := key_secp256k1.PublicFromHex(tok.PubKey)
	if err != nil {
		return ""
	}
	return fingerprint.New(pubK, nil).String()
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(common.ErrorResponse{Error: msg})
}

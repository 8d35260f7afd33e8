package probe

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"bitcoin-auth-probe/auth"
	"bitcoin-auth-probe/configs"
	"bitcoin-auth-probe/crypto/key_secp256k1"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type (
	KeyGenerator interface {
		Generate() (*ec.PrivateKey, error)
	}
	TokenDeriver interface {
		Derive(cfg auth.Config) (string, error)
	}

	KeyGeneratorFunc func() (*ec.PrivateKey, error)
	TokenDeriverFunc func(cfg auth.Config) (string, error)
)

func (f KeyGeneratorFunc) Generate() (*ec.PrivateKey, error) { return f() }
func (f TokenDeriverFunc) Derive(cfg auth.Config) (string, error) { return f(cfg) }

// Request is the fixed request the probe signs
type Request struct {
	Path string
	Body string
}

func DefaultRequest() Request {
	body, _ := json.Marshal(map[string]string{"message": configs.ProbeMessage})
	return Request{Path: configs.ProbeRequestPath, Body: string(body)}
}

// Result of a single run. Caught holds whatever reached the error branch.
type Result struct {
	Wif    string
	Token  string
	Caught any
}

type Runner struct {
	keys   KeyGenerator
	tokens TokenDeriver
	encode func(*ec.PrivateKey) string

	stdout io.Writer
	stderr io.Writer
	logger *logrus.Logger
}

type Option func(*Runner)

func WithKeyGenerator(g KeyGenerator) Option { return func(r *Runner) { r.keys = g } }
func WithTokenDeriver(d TokenDeriver) Option { return func(r *Runner) { r.tokens = d } }

// WithKeyEncoder replaces the WIF export step
func WithKeyEncoder(enc func(*ec.PrivateKey) string) Option {
	return func(r *Runner) { r.encode = enc }
}

func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

func WithLogger(logger *logrus.Logger) Option { return func(r *Runner) { r.logger = logger } }

func New(opts ...Option) *Runner {
	r := &Runner{
		keys:   KeyGeneratorFunc(key_secp256k1.New),
		tokens: TokenDeriverFunc(auth.GetAuthToken),
		encode: key_secp256k1.ToWif,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs the probe once. Every failure, returned or panicked, is reported and swallowed.
func (r *Runner) Run() {
	r.RunResult()
}

func (r *Runner) RunResult() (res Result) {
	defer func() {
		if v := recover(); v != nil {
			r.logger.WithField("panic", v).Debug("probe panicked")
			res.Caught = v
			r.report(v)
		}
	}()

	if err := r.run(&res); err != nil {
		res.Caught = err
		r.report(err)
	}
	return res
}

func (r *Runner) run(res *Result) error {
	fmt.Fprintln(r.stdout, "Attempting to generate private key...")
	privK, err := r.keys.Generate()
	if err != nil {
		return err
	}
	res.Wif = r.encode(privK)
	fmt.Fprintln(r.stdout, "Private key WIF:", res.Wif)

	req := DefaultRequest()
	r.logger.WithFields(logrus.Fields{"path": req.Path, "body": req.Body}).Debug("built probe request")

	fmt.Fprintln(r.stdout, "Attempting to get auth token...")
	res.Token, err = r.tokens.Derive(auth.Config{
		PrivateKeyWif: res.Wif,
		RequestPath:   req.Path,
		Body:          req.Body,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(r.stdout, "Generated token:", res.Token)
	return nil
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func (r *Runner) report(caught any) {
	fmt.Fprintln(r.stderr, "Error during getAuthToken test:")

	var st stackTracer
	if err, ok := caught.(error); ok && errors.As(err, &st) {
		fmt.Fprintln(r.stderr, "Message:", err.Error())
		fmt.Fprintf(r.stderr, "Stack:%+v\n", st.StackTrace())
		return
	}
	fmt.Fprintln(r.stderr, caught)
}

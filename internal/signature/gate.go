package signature

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"twilio-gateway/internal/common/logging"
)

// GateConfig configures a Gate.
type GateConfig struct {
	// Secret is the Twilio auth token. Empty makes every signed request fail as misconfigured.
	Secret string
	// Header overrides DefaultHeader.
	Header string
	// PublicBaseURL is the scheme and host Twilio addresses, e.g. https://hooks.example.com.
	PublicBaseURL string
	// MaxBodyBytes caps how much body is buffered. Zero means unlimited.
	MaxBodyBytes int64
	// ValidateBodyHash enables the bodySHA256 check for JSON bodies.
	ValidateBodyHash bool
}

// Decision is the outcome of one gate evaluation.
type Decision struct {
	Accepted bool
	Reason   Reason
	Material Material
	Err      error
}

// Gate authenticates requests before they reach a handler.
type Gate struct {
	cfg       GateConfig
	extractor *Extractor
	verifier  *Verifier
	logger    logging.Logger
}

func NewGate(cfg GateConfig, logger logging.Logger) *Gate {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Gate{
		cfg:       cfg,
		extractor: NewExtractor(cfg.Header),
		verifier:  NewVerifier(cfg.Secret),
		logger:    logger.WithFields(logging.Field{Key: "component", Value: "twilio_gate"}),
	}
}

// Configured reports whether the gate has a secret to verify with.
func (g *Gate) Configured() bool {
	return g.verifier.Configured()
}

// Evaluate authenticates r and leaves its body readable from the start. The
// returned error is non-nil only when the body itself could not be buffered.
func (g *Gate) Evaluate(r *http.Request) (Decision, error) {
	material, body, err := g.extractor.FromRequest(r, g.cfg.MaxBodyBytes)
	if err != nil {
		return Decision{}, err
	}

	d := g.decide(r, material, body)
	g.audit(r, d)
	return d, nil
}

func (g *Gate) decide(r *http.Request, m Material, body []byte) Decision {
	if !m.Found() {
		return Decision{Reason: ReasonMissing, Err: ErrMissingSignature}
	}

	fail := func(err error) Decision {
		return Decision{Reason: ReasonFor(err), Material: m, Err: err}
	}

	if !g.verifier.Configured() {
		return fail(ErrMisconfiguredSecret)
	}

	contentType := r.Header.Get("Content-Type")
	if g.cfg.ValidateBodyHash && isJSON(contentType) {
		if err := checkBodyHash(r, body); err != nil {
			return fail(err)
		}
	}

	exclude := ""
	if m.Origin == OriginBodyForm {
		exclude = m.Field
	}
	params := SigningParams(contentType, body, exclude)
	if err := g.verifier.Verify(RequestURL(r, g.cfg.PublicBaseURL), params, m.Token); err != nil {
		return fail(err)
	}

	return Decision{Accepted: true, Material: m}
}

func (g *Gate) audit(r *http.Request, d Decision) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
		{Key: "remote_addr", Value: r.RemoteAddr},
		{Key: "origin", Value: string(d.Material.Origin)},
		{Key: "signature", Value: logging.Redact(d.Material.Token)},
	}
	log := g.logger.WithContext(r.Context())

	switch {
	case d.Accepted:
		log.Info("Twilio signature accepted", fields...)
	case d.Reason == ReasonMisconfigured:
		log.Error("Twilio signature check misconfigured", d.Err, append(fields, logging.Field{Key: "reason", Value: string(d.Reason)})...)
	default:
		log.Warn("Twilio signature rejected", append(fields,
			logging.Field{Key: "reason", Value: string(d.Reason)},
			logging.Field{Key: "error", Value: d.Err.Error()},
		)...)
	}
}

// Middleware rejects unauthenticated requests and passes the rest, with their
// body intact, to next. The accepted Material is available via MaterialFromContext.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, err := g.Evaluate(r)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, ErrBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			g.logger.WithContext(r.Context()).Warn("Unable to read webhook body",
				logging.Field{Key: "path", Value: r.URL.Path},
				logging.Field{Key: "error", Value: err.Error()},
			)
			writeRejection(w, status, "unreadable_body", err.Error())
			return
		}

		if !d.Accepted {
			appErr := toAppError(d.Err)
			writeRejection(w, d.Reason.Status(), appErr.Code, rejectionMessage(d.Reason))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), materialKey{}, d.Material)))
	})
}

type materialKey struct{}

// MaterialFromContext returns the signing material accepted by the gate.
func MaterialFromContext(ctx context.Context) (Material, bool) {
	m, ok := ctx.Value(materialKey{}).(Material)
	return m, ok
}

func rejectionMessage(r Reason) string {
	switch r {
	case ReasonMissing:
		return "no signature in header or body"
	case ReasonMisconfigured:
		return "signature validation is not configured"
	default:
		return "access denied"
	}
}

func writeRejection(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}

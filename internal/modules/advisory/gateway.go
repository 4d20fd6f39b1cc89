// Package advisory implements the advisory gateway: validation of
// inbound financial profiles, translation to and from the AI advisory
// backend's wire format, the single outbound HTTP call, and the
// normalization of every failure path into one error taxonomy.
package advisory

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/wealthwise/advisor/internal/domain"
)

// Gateway composes the validator, wire mapper, and advisory client
// into the validate -> map -> call -> decode pipeline. It is stateless
// with respect to request data: concurrent calls share only the
// read-only configuration and the client's connection pool.
type Gateway struct {
	client *Client
	mapper *Mapper
	log    zerolog.Logger
}

// NewGateway creates a gateway around an already-constructed client.
func NewGateway(client *Client, mapper *Mapper, log zerolog.Logger) *Gateway {
	return &Gateway{
		client: client,
		mapper: mapper,
		log:    log.With().Str("component", "advisory_gateway").Logger(),
	}
}

// GenerateAdvice runs one end-to-end advisory call for the given
// profile under the caller's deadline. The four stages execute
// strictly sequentially; the only suspension point is the network call
// inside the client.
//
// Every failure is a *advisory.Error with exactly one Kind: validation
// failures carry the offending field list and skip the network call
// entirely; client/upstream/transport/cancellation kinds pass through
// from the client unchanged; an undecodable 2xx body reports
// KindMalformedResponse. An empty but well-formed advice body is a
// success - deciding whether empty advice is actionable belongs to the
// caller.
func (g *Gateway) GenerateAdvice(ctx context.Context, profile domain.FinancialProfile, opts RequestOptions) (domain.FinancialAdvice, error) {
	start := time.Now()

	if err := ValidateProfile(profile); err != nil {
		g.logOutcome(profile.ID, "validation_failed", start, err)
		return domain.FinancialAdvice{}, err
	}

	wireReq := g.mapper.ToWireRequest(profile, opts)

	body, err := g.client.Call(ctx, wireReq)
	if err != nil {
		g.logOutcome(profile.ID, "call_failed", start, err)
		return domain.FinancialAdvice{}, err
	}

	advice, err := g.mapper.FromWireResponse(body)
	if err != nil {
		g.logOutcome(profile.ID, "decode_failed", start, err)
		return domain.FinancialAdvice{}, err
	}

	g.log.Info().
		Str("profile_id", profile.ID).
		Str("category", string(advice.Category)).
		Int("action_items", len(advice.ActionItems)).
		Dur("elapsed", time.Since(start)).
		Msg("Advice generated")

	return advice, nil
}

// logOutcome records a failed call for observability. Logging never
// alters the control-flow outcome.
func (g *Gateway) logOutcome(profileID, stage string, start time.Time, err error) {
	evt := g.log.Warn().
		Str("profile_id", profileID).
		Str("stage", stage).
		Str("kind", string(KindOf(err))).
		Dur("elapsed", time.Since(start))

	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		evt = evt.Int("status", ae.Status)
	}
	evt.Err(err).Msg("Advice generation failed")
}

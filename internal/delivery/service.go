package delivery

import (
	"context"
	"log/slog"

	"acai-backend/internal/domain"
	"acai-backend/internal/metrics"
)

// Service resolves a postal code and classifies it against the policy.
type Service struct {
	Geocoder Geocoder
	Policy   Policy
	Logger   *slog.Logger
}

func (s Service) Quote(ctx context.Context, cep string) (Quote, error) {
	cep = domain.NormalizeCEP(cep)
	addr, err := s.Geocoder.Lookup(ctx, cep)
	if err != nil {
		metrics.DeliveryQuotes.WithLabelValues("unresolved").Inc()
		if s.Logger != nil {
			s.Logger.Warn("cep lookup failed", "cep", cep, "err", err)
		}
		return Quote{}, err
	}
	if addr.CEP == "" {
		addr.CEP = cep
	}
	q := s.Policy.Classify(addr)
	if q.OutOfRange {
		metrics.DeliveryQuotes.WithLabelValues(q.Reason).Inc()
	} else {
		metrics.DeliveryQuotes.WithLabelValues("in_range").Inc()
	}
	return q, nil
}

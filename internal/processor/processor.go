// Package processor runs one record through the resolution pipeline and
// classifies the outcome.
package processor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/deg0at/cfaxdlr/internal/carfax"
)

// Processor orchestrates normalize -> resolve -> download for one record.
type Processor struct {
	resolver  carfax.Resolver
	documents carfax.DocumentFetcher
	logger    *zap.Logger
}

// New builds a Processor.
func New(resolver carfax.Resolver, documents carfax.DocumentFetcher, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		resolver:  resolver,
		documents: documents,
		logger:    logger,
	}
}

// Process maps rec to exactly one terminal status. Every failure is folded
// into the result; no error escapes to the caller. A returned document is
// non-nil only for StatusDownloaded.
func (p *Processor) Process(ctx context.Context, rec carfax.Record, download bool) (carfax.Result, *carfax.Document) {
	res := carfax.Result{
		Index:      rec.Index,
		Identifier: rec.Identifier,
		Status:     carfax.StatusPending,
	}
	res.SourceURL = carfax.NormalizeURL(rec.RawURL)

	if !carfax.IsValidURL(res.SourceURL) {
		res.Status = carfax.StatusInvalidURL
		res.ErrorMsg = "invalid listing URL"
		return res, nil
	}

	target, err := p.resolver.Resolve(ctx, res.SourceURL)
	if err != nil {
		res.Status, res.ErrorMsg = classifyResolveError(err)
		if res.Status == carfax.StatusResolverError {
			p.logger.Warn("resolve failed",
				zap.String("identifier", rec.Identifier),
				zap.String("url", res.SourceURL),
				zap.Error(err),
			)
		}
		return res, nil
	}
	res.ResolvedURL = target.URL

	if !download {
		res.Status = carfax.StatusURLOnly
		return res, nil
	}

	doc, err := p.documents.Fetch(ctx, target.URL)
	if err != nil {
		// Partial success: the resolved URL survives a failed download.
		res.Status = carfax.StatusDownloadFailed
		res.ErrorMsg = fmt.Sprintf("report download error: %v", err)
		p.logger.Warn("report download failed",
			zap.String("identifier", rec.Identifier),
			zap.String("url", target.URL),
			zap.Error(err),
		)
		return res, nil
	}

	doc.Filename = carfax.SanitizeIdentifier(rec.Identifier) + doc.Extension
	res.Filename = doc.Filename
	res.Status = carfax.StatusDownloaded
	return res, &doc
}

// classifyResolveError separates the legitimate no-target outcomes from
// genuine resolver failures.
func classifyResolveError(err error) (carfax.Status, string) {
	switch {
	case errors.Is(err, carfax.ErrNoToken):
		return carfax.StatusNoToken, err.Error()
	case errors.Is(err, carfax.ErrNoTargetLink):
		return carfax.StatusNoTargetLink, err.Error()
	case errors.Is(err, carfax.ErrNoTargetFound):
		return carfax.StatusNoTargetFound, err.Error()
	default:
		return carfax.StatusResolverError, err.Error()
	}
}

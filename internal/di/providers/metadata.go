package providers

import (
	"github.com/samber/do/v2"

	"github.com/papertrailapp/papertrail-server/internal/config"
	"github.com/papertrailapp/papertrail-server/internal/logger"
	"github.com/papertrailapp/papertrail-server/internal/metadata/openalex"
)

// OpenAlexClientHandle wraps the OpenAlex client for DI.
type OpenAlexClientHandle struct {
	*openalex.Client
}

// ProvideOpenAlexClient provides the bibliographic search client.
func ProvideOpenAlexClient(i do.Injector) (*OpenAlexClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	opts := []openalex.Option{}
	if cfg.OpenAlex.BaseURL != "" {
		opts = append(opts, openalex.WithBaseURL(cfg.OpenAlex.BaseURL))
	}
	if cfg.OpenAlex.MailTo != "" {
		opts = append(opts, openalex.WithMailTo(cfg.OpenAlex.MailTo))
	}

	client := openalex.NewClient(log.Logger, opts...)

	log.Info("OpenAlex client initialized",
		"base_url", cfg.OpenAlex.BaseURL,
		"polite_pool", cfg.OpenAlex.MailTo != "",
	)

	return &OpenAlexClientHandle{Client: client}, nil
}

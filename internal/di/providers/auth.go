package providers

import (
	"github.com/samber/do/v2"

	"github.com/papertrailapp/papertrail-server/internal/auth"
	"github.com/papertrailapp/papertrail-server/internal/config"
	"github.com/papertrailapp/papertrail-server/internal/logger"
)

// AuthKey wraps the token verification key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the token verification key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}

	// Keep the loaded key on the config for tooling that reads it there.
	cfg.Auth.AccessTokenKey = key

	log.Info("Token verification key loaded")

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	authKey := do.MustInvoke[AuthKey](i)
	return auth.NewTokenService([]byte(authKey))
}

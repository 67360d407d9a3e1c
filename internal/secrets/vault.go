package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

// defaultVaultMount — KV-v2 mount, в котором лежат секреты фреймворка.
const defaultVaultMount = "conveyor"

// VaultBackend читает секреты из managed vault.
//
// Используется только если явно задан VAULT_ADDR. Формат имени
// секрета: "{source-with-dashes}-{key}", значение в поле "value".
// Любая ошибка чтения — тихий fallthrough на следующий backend:
// недоступный vault не должен ронять запуск, у которого есть
// локальные секреты.
type VaultBackend struct {
	client *vault.Client
	mount  string
	logger *slog.Logger
}

// NewVaultBackend создаёт backend поверх VAULT_ADDR/VAULT_TOKEN
// из окружения (стандартная конфигурация vault-клиента).
func NewVaultBackend(logger *slog.Logger) (*VaultBackend, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("read vault environment: %w", err)
	}

	client, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("new vault client: %w", err)
	}

	mount := os.Getenv("CONVEYOR_VAULT_MOUNT")
	if mount == "" {
		mount = defaultVaultMount
	}

	logger.Info("vault backend enabled", "addr", cfg.Address, "mount", mount)

	return &VaultBackend{
		client: client,
		mount:  mount,
		logger: logger,
	}, nil
}

// Name возвращает имя backend.
func (v *VaultBackend) Name() string { return "vault" }

// TryResolve читает секреты "{name-with-dashes}-{key}" для всех
// известных ключей.
func (v *VaultBackend) TryResolve(ctx context.Context, name string) (Bundle, error) {
	prefix := strings.ReplaceAll(name, "_", "-")
	kv := v.client.KVv2(v.mount)

	bundle := Bundle{}
	for _, key := range commonKeys {
		secretName := prefix + "-" + strings.ReplaceAll(key, "_", "-")

		secret, err := kv.Get(ctx, secretName)
		if err != nil {
			// Отсутствующий секрет неотличим от ошибки доступа на уровне
			// одного ключа; продолжаем, итоговый пустой bundle означает skip.
			continue
		}
		if secret == nil || secret.Data == nil {
			continue
		}
		if value, ok := secret.Data["value"].(string); ok && value != "" {
			bundle[key] = value
		}
	}

	if len(bundle) == 0 {
		return nil, nil
	}
	return bundle, nil
}

package secrets

import "context"

// Bundle — разрешённый набор учётных данных одного источника
// или destination: host, port, database, username, password для БД;
// base_url и auth-материал для API; storage-ключи для destination.
//
// Bundle живёт только на время выполнения одного job и никогда
// не персистится.
type Bundle map[string]string

// commonKeys — ключи, которые probing-backends (mount, vault, env)
// пытаются прочитать для каждого имени.
var commonKeys = []string{
	"host", "port", "database", "username", "password",
	"sid", "service_name", "schema",
	"base_url", "api_key",
	"bucket_url", "storage_account", "storage_key",
}

// Backend — один источник учётных данных в цепочке.
//
// TryResolve возвращает:
//   - (bundle, nil) — найдено;
//   - (nil, nil) — в этом backend ничего нет, пробуем следующий;
//   - (nil, err) — backend недоступен; resolver логирует и идёт дальше.
type Backend interface {
	// Name — имя backend для логирования.
	Name() string

	// TryResolve ищет bundle для имени источника или destination.
	TryResolve(ctx context.Context, name string) (Bundle, error)
}

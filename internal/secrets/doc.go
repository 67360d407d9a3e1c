// Package secrets разрешает учётные данные источников и destination
// из приоритетной цепочки backends.
//
// Порядок разрешения (первое совпадение выигрывает, без слияния):
//  1. Секреты, примонтированные платформой (probe на наличие каталога)
//  2. Managed vault (только если задан VAULT_ADDR; любая ошибка —
//     тихий fallthrough)
//  3. Переменные окружения CONVEYOR_<SOURCE>_<KEY>
//  4. Локальный файл секретов (читается один раз, кэшируется)
//
// Частичные bundle из разных backends никогда не объединяются:
// backend либо возвращает заполненный bundle, либо ничего.
package secrets

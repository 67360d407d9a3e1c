// Package cli реализует инструмент командной строки Conveyor.
//
// # Обзор
//
// CLI работает локально: загружает реестр jobs, разрешает учётные
// данные и запускает batch теми же пакетами, что и долгоживущий
// runner. Отдельного API-сервера не требуется.
//
// # Ключевые компоненты
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: conveyor validate --json | jq .
//
// ## Commands
//
// Cobra-команды:
//   - validate — проверка конфигурации jobs без выполнения
//   - run      — запуск batch (smoke-режим через dry-run executor)
//   - secrets  — диагностика цепочки разрешения учётных данных
//   - chunk    — рекомендация размера чанка по числу строк
//
// Каждая команда создаётся через фабричную функцию (NewValidateCmd
// и т.д.), принимающую outputFn — замыкание для ленивого создания
// Output после парсинга PersistentFlags.
package cli

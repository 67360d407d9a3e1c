// Package config загружает декларативный реестр jobs из YAML.
//
// Формат файла:
//
//	jobs:
//	  - source_kind: postgres
//	    source_name: billing-db
//	    target: invoices
//	    load_mode: INCREMENTAL
//	    watermark_column: updated_at
//	    enabled: true
//
// Загрузчик возвращает jobs как есть; семантическая валидация —
// зона ответственности пакета validate.
package config

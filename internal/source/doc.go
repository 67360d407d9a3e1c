// Package source описывает закрытое множество типов источников
// и их capabilities.
//
// Каждый тип источника (postgres, oracle, mssql, azuresql, api)
// реализует интерфейс Source: построение DSN из учётных данных,
// поддержка схем и рекомендация размера чанка. Добавление нового
// типа — это добавление варианта, проверяемое компилятором,
// а не строковый lookup.
package source

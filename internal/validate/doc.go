// Package validate выполняет pre-flight валидацию конфигурации jobs.
//
// Проверки ловят ошибки конфигурации до того, как на неисполнимый
// job будут потрачены ресурсы. Результаты имеют уровни серьёзности:
// job с падающими результатами уровня ERROR/CRITICAL неисполним,
// WARNING означает fallback на значение по умолчанию.
package validate

// Package fault реализует защиту от каскадных отказов:
// circuit breaker для именованных ресурсов и retry-исполнитель
// с экспоненциальным backoff.
//
// Breaker и Retrier независимы от предметной области: breaker — это
// машина состояний CLOSED/OPEN/HALF_OPEN на произвольный именованный
// ресурс, Retrier оборачивает произвольную единицу работы.
package fault

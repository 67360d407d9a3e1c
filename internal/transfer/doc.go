// Package transfer определяет контракт внешнего исполнителя переноса
// данных и таксономию его ошибок.
//
// Сам перенос (чтение строк из источника, запись партиционированных
// файлов в destination) — зона ответственности внешнего коллаборатора.
// Оркестратор не заглядывает внутрь пагинации, merge-логики или
// эволюции схемы.
package transfer

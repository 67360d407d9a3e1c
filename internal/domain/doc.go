// Package domain содержит основные сущности системы.
//
// Главная сущность — Job: декларативное описание одной единицы
// ингестии (источник → целевая таблица). Jobs загружаются из
// конфигурационного файла, валидируются один раз за запуск
// и никогда не мутируются.
package domain

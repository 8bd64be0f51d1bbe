// Package driver связывает ядро с файловой системой.
//
// Назначение: загрузка файлов, пакетная проверка с ограничением числа
// воркеров, дисковый кэш диагностик, форматирование и исправление файлов.
// Не делает: не печатает результаты, это задача diagfmt и cmd/chamber.
package driver

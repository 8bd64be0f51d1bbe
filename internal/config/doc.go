// Package config загружает chamber.toml или chamber.yaml.
//
// Назначение: таблицы [format], [analyzer] и [check] поверх значений по
// умолчанию; поиск файла вверх от рабочего каталога.
// Не делает: не разбирает флаги CLI, приоритет флагов решает cmd/chamber.
package config

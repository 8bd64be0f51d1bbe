// Package fuzztests houses Go fuzz harnesses for the chamber front end
// (source -> lexer -> parser -> lower -> format). Each target checks an
// invariant from testkit on arbitrary input besides smoke testing for
// panics and hangs.
//
// Назначение: гонять lexer, parser и formatter на произвольных байтах и
// проверять покрытие токенами, lossless печать и идемпотентность.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/lexer, internal/parser, internal/format,
// internal/testkit.

package fuzztests

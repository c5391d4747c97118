// Package fuzztests houses Go fuzz harnesses that push arbitrary bytes
// through the template pipeline (source -> scanner -> parser -> convert ->
// transform -> emit). Its goal is to smoke test robustness and guard against
// panics or hangs on malformed templates.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через все стадии компиляции.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests

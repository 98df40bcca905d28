// Package watch monitors tracked checkout trees through fsnotify and
// re-probes a checkout's dashboard fields, debounced, whenever its files
// change. The watch lifecycle is managed with a stopper context so teardown
// drains the notification goroutine before the event channel closes.
package watch

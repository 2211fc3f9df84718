// Package file stores membox settings in a TOML file, by default
// ~/.membox/config.toml. Keys are dotted paths ("search.topk") that map
// onto TOML tables.
package file

package handlers

import (
	"supplychain/config"
	"supplychain/store"
)

// Store is the record store all handlers operate on, set once at startup.
var Store store.RecordStore

// Cfg is the loaded application configuration.
var Cfg config.Config

// Init wires the handlers to the opened store and configuration.
func Init(st store.RecordStore, cfg config.Config) {
	Store = st
	Cfg = cfg
}

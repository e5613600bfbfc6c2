// Package binance implements a single-symbol REST client for Binance spot.
//
// The package includes:
//   - Signer: HMAC-SHA256 signing of ordered query strings
//   - Protocol: request building, response parsing, and authentication
//   - Normalizer: conversion between Binance-specific and canonical types
//   - BinanceExchange: one method per endpoint over the shared transport
//
// Example usage:
//
//	client, err := binance.New(core.DefaultConfig("binance", "LTC/USDT"))
//	book, err := client.GetOrderBook(ctx, exchange.WithLimit(5))
package binance

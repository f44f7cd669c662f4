package main

// The contextKey type provides unique keys to store and retrieve request values without the risk of
// naming collisions.
type contextKey string

const userIDContextKey = contextKey("userID")

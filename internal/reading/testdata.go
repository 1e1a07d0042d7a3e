package reading

// TestPayload is the well-known sensor blob uploaded by integration
// fixtures. PurgeTestReadings removes only readings whose contents equal it,
// so production data is never touched by the maintenance purge.
const TestPayload = "TGlicmVPT1BXZWIgdGVzdCByZWFkaW5nOiBhbGdvcml0aG0gcmV0dXJucyA2LjMgbW1vbC9M"

package model

import "errors"

var ErrorInvalidSignature = errors.New("invalid signature")
var ErrorNotUTC = errors.New("timestamp must be ISO-8601 UTC with Z suffix")
var ErrorStoreNotReady = errors.New("store not ready")

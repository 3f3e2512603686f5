package auth

import (
	"telechan-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("telechan.services.auth")

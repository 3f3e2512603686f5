package telegram

import (
	"telechan-backend/lib/restyutil"
	"telechan-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("telechan.lib.scrapers.telegram")

var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput enables full request/response dumps for every
// client created afterwards. Call before NewClient.
func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	restyInstrumentOutput = output
}

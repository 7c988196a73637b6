package otel

import global "go.opentelemetry.io/otel"

const InstrumentationName = "catering-quote"

// Tracer delegates to whatever provider cmd installs globally.
var Tracer = global.Tracer(InstrumentationName)

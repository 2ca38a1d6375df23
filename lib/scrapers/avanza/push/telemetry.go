package push

import (
	"avanza-scraper/lib/telemetry"
)

var tracer = telemetry.Tracer("avanza.lib.scrapers.avanza.push")

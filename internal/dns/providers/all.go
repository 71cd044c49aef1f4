// Package providers imports all DNS provider packages to trigger their init() registration.
package providers

import (
	_ "github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/dns/memory"
	_ "github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/dns/route53"
)

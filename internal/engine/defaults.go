package engine

// DefaultRules is the built-in classification catalog for mobile app crash
// and performance signals. Declaration order matters: it is the resolver's
// final tie-break, so higher-signal categories come first.
func DefaultRules() []RuleDefinition {
	return []RuleDefinition{
		{
			Category: "image_loading",
			TextPatterns: []string{
				`cached_network_image`,
				`ImageLoader\.loadImageAsync`,
				`Invalid image data`,
				`image_provider`,
				`NetworkImage`,
				`image\.dart`,
			},
			BaseImpactWeight: 70,
			RootCauses: []string{
				"Invalid or corrupted image data from network source",
				"Network timeout or connection issues during image download",
				"Server returning error pages instead of valid images",
				"Image format not supported or corrupted during transmission",
				"Cached image corruption on device storage",
				"Content-Type header mismatch causing parsing errors",
			},
			Actions: []Recommendation{
				{Priority: PriorityHigh, Action: "Implement robust image error handling", Detail: "Add an error widget fallback to every network image view", Type: "code_fix"},
				{Priority: PriorityHigh, Action: "Validate image URLs and data", Detail: "Reject unsupported formats before handing bytes to the decoder", Type: "code_fix"},
				{Priority: PriorityMedium, Action: "Add automatic retry for failed image loads", Type: "code_fix"},
				{Priority: PriorityMedium, Action: "Clear corrupted image cache entries", Type: "maintenance"},
			},
			InvestigationSteps: []string{
				"Reproduce the crash with the specific image URLs",
				"Test image loading under degraded network conditions",
				"Verify image format and server response headers",
				"Check for cached image corruption",
				"Test with different image sizes and formats",
			},
		},
		{
			Category: "network",
			TextPatterns: []string{
				`SocketException`,
				`TimeoutException`,
				`NetworkException`,
				`Connection.*failed`,
				`HttpException`,
				`dio`,
			},
			MetricRule: &MetricRule{
				Metric:     "network_latency_ms",
				Excellent:  200,
				Acceptable: 500,
				Critical:   1000,
				Direction:  HigherIsWorse,
			},
			BaseImpactWeight: 55,
			RootCauses: []string{
				"Poor network connectivity or intermittent connection",
				"Server overload, downtime, or rate limiting",
				"DNS resolution failures or routing issues",
				"Firewall or proxy blocking requests",
				"SSL/TLS certificate validation failures",
				"Network timeout configuration too aggressive",
			},
			Actions: []Recommendation{
				{Priority: PriorityHigh, Action: "Add network connectivity checks", Type: "code_fix"},
				{Priority: PriorityHigh, Action: "Configure request timeouts", Detail: "Set explicit connect and read timeouts on the HTTP client", Type: "configuration"},
				{Priority: PriorityMedium, Action: "Implement retry with exponential backoff", Type: "code_fix"},
			},
			InvestigationSteps: []string{
				"Test with poor network connectivity",
				"Verify server availability and response times",
				"Check DNS resolution and routing",
				"Monitor request and response logs",
			},
		},
		{
			Category: "memory",
			TextPatterns: []string{
				`OutOfMemoryError`,
				`Memory.*allocation`,
				`Heap.*overflow`,
				`Stack.*overflow`,
				`memory.*leak`,
			},
			MetricRule: &MetricRule{
				Metric:     "memory_usage_mb",
				Excellent:  100,
				Acceptable: 150,
				Critical:   200,
				Direction:  HigherIsWorse,
			},
			BaseImpactWeight: 85,
			RootCauses: []string{
				"Memory leak in image processing or caching",
				"Large image files without proper size optimization",
				"Infinite loops or excessive recursion",
				"Poor memory management in native plugins",
				"Device memory constraints on older hardware",
				"Memory fragmentation from frequent allocations",
			},
			Actions: []Recommendation{
				{Priority: PriorityHigh, Action: "Add memory usage monitoring and limits", Type: "code_fix"},
				{Priority: PriorityHigh, Action: "Optimize image processing", Detail: "Compress and downscale images before decoding", Type: "optimization"},
				{Priority: PriorityMedium, Action: "Audit resource disposal for leaks", Type: "maintenance"},
			},
			InvestigationSteps: []string{
				"Profile memory usage while reproducing the crash",
				"Test on memory-constrained devices",
				"Check for leaks in long-running sessions",
				"Monitor garbage collection patterns",
			},
		},
		{
			Category: "ui_rendering",
			TextPatterns: []string{
				`RenderFlex.*overflow`,
				`RenderBox.*overflow`,
				`constraint.*violation`,
				`widget.*error`,
				`build.*error`,
			},
			MetricRule: &MetricRule{
				Metric:     "ui_fps",
				Excellent:  60,
				Acceptable: 50,
				Critical:   30,
				Direction:  LowerIsWorse,
			},
			BaseImpactWeight: 60,
			RootCauses: []string{
				"Layout constraint violations in the widget tree",
				"Null safety issues with widget properties",
				"Infinite widget rebuild loops",
				"Platform-specific rendering differences",
				"Memory pressure affecting UI rendering",
				"Widget lifecycle management issues",
			},
			Actions: []Recommendation{
				{Priority: PriorityHigh, Action: "Fix layout constraint violations", Type: "code_fix"},
				{Priority: PriorityMedium, Action: "Simplify deep widget trees", Type: "optimization"},
				{Priority: PriorityMedium, Action: "Reduce unnecessary rebuilds", Detail: "Cache subtrees that do not depend on changing state", Type: "optimization"},
			},
		},
		{
			Category: "data_parsing",
			TextPatterns: []string{
				`JsonDecodeException`,
				`FormatException`,
				`parsing.*error`,
				`decode.*error`,
				`serialization.*error`,
			},
			BaseImpactWeight: 45,
			RootCauses: []string{
				"Server response shape drifted from the client model",
				"Missing null checks on optional payload fields",
				"Locale-dependent number or date formats",
				"Truncated response bodies decoded as complete",
			},
			Actions: []Recommendation{
				{Priority: PriorityHigh, Action: "Validate payloads before decoding", Type: "code_fix"},
				{Priority: PriorityMedium, Action: "Add schema version negotiation with the backend", Type: "code_fix"},
			},
		},
		{
			Category: "authentication",
			TextPatterns: []string{
				`AuthException`,
				`FirebaseAuth`,
				`login.*failed`,
				`token.*invalid`,
				`credential.*error`,
			},
			BaseImpactWeight: 50,
			RootCauses: []string{
				"Expired or revoked authentication tokens",
				"Clock skew breaking token validation",
				"Credential store corruption on device",
				"Auth provider outage or configuration change",
			},
			Actions: []Recommendation{
				{Priority: PriorityHigh, Action: "Refresh tokens proactively before expiry", Type: "code_fix"},
				{Priority: PriorityMedium, Action: "Handle auth failures with re-login flow", Type: "code_fix"},
			},
		},
		{
			Category: "local_storage",
			TextPatterns: []string{
				`FileSystemException`,
				`DatabaseException`,
				`sqlite.*error`,
				`storage.*error`,
				`io.*error`,
			},
			BaseImpactWeight: 50,
			RootCauses: []string{
				"Device storage full or quota exceeded",
				"Database file corruption after unclean shutdown",
				"Concurrent writes without transaction isolation",
				"Migration mismatch between app versions",
			},
			Actions: []Recommendation{
				{Priority: PriorityHigh, Action: "Handle storage-full conditions gracefully", Type: "code_fix"},
				{Priority: PriorityMedium, Action: "Add database integrity checks on startup", Type: "code_fix"},
			},
		},
		{
			Category: "native_plugin",
			TextPatterns: []string{
				`PlatformException`,
				`MethodChannel`,
				`native.*error`,
				`plugin.*error`,
				`channel.*error`,
			},
			BaseImpactWeight: 75,
			RootCauses: []string{
				"Plugin version incompatible with the platform SDK",
				"Method channel called before platform side registered",
				"Native dependency missing on specific OS versions",
				"Threading violations across the platform channel",
			},
			Actions: []Recommendation{
				{Priority: PriorityHigh, Action: "Pin and test plugin versions per platform", Type: "maintenance"},
				{Priority: PriorityHigh, Action: "Guard channel calls with platform availability checks", Type: "code_fix"},
			},
		},
		{
			Category: "app_framework",
			TextPatterns: []string{
				`main\.dart`,
				`Flutter.*initialization`,
				`framework.*error`,
				`widget.*binding`,
				`runApp`,
			},
			BaseImpactWeight: 80,
			RootCauses: []string{
				"Framework initialization ordering violated at startup",
				"Plugin registration racing the first frame",
				"Unhandled exception escaping the root error zone",
				"Framework version regression after upgrade",
			},
			Actions: []Recommendation{
				{Priority: PriorityHigh, Action: "Ensure bindings initialize before any plugin use", Type: "code_fix"},
				{Priority: PriorityHigh, Action: "Install a root error handler that reports and recovers", Type: "code_fix"},
			},
		},
		{
			Category: "startup_time",
			MetricRule: &MetricRule{
				Metric:     "startup_time",
				Excellent:  2.0,
				Acceptable: 3.0,
				Critical:   5.0,
				Direction:  HigherIsWorse,
			},
			BaseImpactWeight: 65,
			RootCauses: []string{
				"Heavy synchronous initialization on the main thread",
				"Eager loading of non-critical services at launch",
				"Large assets decoded before the first frame",
			},
			Actions: []Recommendation{
				{Priority: PriorityHigh, Action: "Defer non-critical initialization with lazy loading", Type: "optimization"},
				{Priority: PriorityMedium, Action: "Move synchronous startup work off the main thread", Type: "optimization"},
				{Priority: PriorityMedium, Action: "Load large assets progressively after first frame", Type: "optimization"},
			},
			InvestigationSteps: []string{
				"Trace startup with a profiler and record the critical path",
				"Measure cold and warm start separately",
				"List every service initialized before the first frame",
			},
		},
		{
			Category: "battery_drain",
			MetricRule: &MetricRule{
				Metric:     "battery_drain_pct_per_hour",
				Excellent:  3.0,
				Acceptable: 5.0,
				Critical:   8.0,
				Direction:  HigherIsWorse,
			},
			BaseImpactWeight: 40,
			RootCauses: []string{
				"Periodic timers running while backgrounded",
				"Continuous sensor or location usage",
				"CPU-intensive work not batched or deferred",
			},
			Actions: []Recommendation{
				{Priority: PriorityMedium, Action: "Batch background work and respect OS scheduling", Type: "optimization"},
				{Priority: PriorityMedium, Action: "Release sensors and location when not visible", Type: "code_fix"},
			},
		},
	}
}

// baselineRecommendations are appended to every finding regardless of
// category, so the recommendation list is never empty.
func baselineRecommendations() []Recommendation {
	return []Recommendation{
		{Priority: PriorityMedium, Action: "Add comprehensive crash logging", Detail: "Capture breadcrumbs and device context with every report", Type: "monitoring"},
		{Priority: PriorityLow, Action: "Update dependencies to latest stable versions", Type: "maintenance"},
	}
}

// supplementalActions extend a finding when the given keyword appears in its
// resolved root causes.
var supplementalActions = map[string][]Recommendation{
	"image": {
		{Priority: PriorityMedium, Action: "Audit image cache size and eviction policy", Type: "maintenance"},
		{Priority: PriorityMedium, Action: "Serve appropriately sized image variants from the backend", Type: "optimization"},
	},
	"timeout": {
		{Priority: PriorityHigh, Action: "Review and tune timeout configuration", Type: "configuration"},
	},
	"memory": {
		{Priority: PriorityMedium, Action: "Schedule a heap profiling session on affected devices", Type: "monitoring"},
	},
}

// supplementalKeywords fixes the lookup order over supplementalActions so
// classification output is deterministic.
var supplementalKeywords = []string{"image", "timeout", "memory"}

// genericRootCauses is the fallback when no rule matched the event.
var genericRootCauses = []string{
	"Insufficient signal: no known failure pattern matched",
}

// genericInvestigationSteps is the fallback for categories without their own
// investigation list.
var genericInvestigationSteps = []string{
	"Review crash logs for specific trigger conditions",
	"Test on the affected device types and OS versions",
	"Reproduce with a minimal test case",
	"Check for specific user actions preceding the failure",
}

package config

// mergeConfigs merges override configuration into base
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}
	if override.Projects != "" {
		result.Projects = override.Projects
	}
	if override.Logs != "" {
		result.Logs = override.Logs
	}

	if override.Watch != nil {
		if result.Watch == nil {
			result.Watch = &WatchConfig{}
		} else {
			w := *result.Watch
			result.Watch = &w
		}
		if override.Watch.SiblingPrefix != "" {
			result.Watch.SiblingPrefix = override.Watch.SiblingPrefix
		}
		if len(override.Watch.Ignore) > 0 {
			result.Watch.Ignore = append(append([]string(nil), result.Watch.Ignore...), override.Watch.Ignore...)
		}
	}

	if override.Daemon != nil {
		if result.Daemon == nil {
			result.Daemon = &DaemonConfig{}
		} else {
			d := *result.Daemon
			result.Daemon = &d
		}
		if override.Daemon.ScanInterval != "" {
			result.Daemon.ScanInterval = override.Daemon.ScanInterval
		}
		if override.Daemon.HeartbeatInterval != "" {
			result.Daemon.HeartbeatInterval = override.Daemon.HeartbeatInterval
		}
		if override.Daemon.ConversationInterval != "" {
			result.Daemon.ConversationInterval = override.Daemon.ConversationInterval
		}
		if len(override.Daemon.Indicators) > 0 {
			result.Daemon.Indicators = override.Daemon.Indicators
		}
		if override.Daemon.StatusAPI != nil {
			result.Daemon.StatusAPI = override.Daemon.StatusAPI
		}
	}

	// Extensions merge one level deep, override wins per key.
	if len(override.Extensions) > 0 {
		merged := make(map[string]interface{}, len(result.Extensions)+len(override.Extensions))
		for k, v := range result.Extensions {
			merged[k] = v
		}
		for k, v := range override.Extensions {
			merged[k] = v
		}
		result.Extensions = merged
	}

	return &result
}

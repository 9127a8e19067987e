package bridge

// Fixed sub-topic names.
const (
	topicSet         = "set"
	topicHAState     = "ha_state"
	topicClearStatus = "clear_status"
	topicDateTime    = "datetime"
	topicEvent       = "event"
	topicEventCode   = "event_code"
	topicRestoreCode = "restore_code"
)

// subTopic joins a parent topic with a sub-topic name.
func subTopic(parent, name string) string {
	return parent + "/" + name
}

// baseUnitTopic returns the topic for one base unit property.
func (c *Config) baseUnitTopic(name string) string {
	return subTopic(c.BaseUnitTopic, name)
}

// clearStatusTopic is the writable topic that clears the panel status.
func (c *Config) clearStatusTopic() string {
	return subTopic(c.BaseUnitTopic, topicClearStatus)
}

// setDateTimeTopic is the writable topic for the remote clock.
func (c *Config) setDateTimeTopic() string {
	return subTopic(subTopic(c.BaseUnitTopic, topicDateTime), topicSet)
}

// setPropertyTopic is the writable topic for one base unit property.
func (c *Config) setPropertyTopic(name string) string {
	return subTopic(c.baseUnitTopic(name), topicSet)
}

// setSwitchTopic is the writable topic for one configured switch.
func setSwitchTopic(switchTopic string) string {
	return subTopic(switchTopic, topicSet)
}

// discoveryTopic is where a discovery document is published.
func (c *Config) discoveryTopic(platform, uniqueID string) string {
	return c.DiscoveryPrefix + "/" + platform + "/" + uniqueID + "/config"
}

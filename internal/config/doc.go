// Package config loads the agent configuration.
//
// Settings come from an optional YAML file and are then overridden by
// environment variables:
//
//	OPENAI_API_KEY, OPENAI_BASE_URL
//	GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, GOOGLE_REDIRECT_URL
//	GMAIL_ACCOUNT, GMAIL_QUERY
//	GOOGLE_SEARCH_API_KEY, GOOGLE_SEARCH_CX
//	INBOXAGENT_DATA_DIR, INBOXAGENT_VECTOR_DB, INBOXAGENT_NAMESPACE, INBOXAGENT_TOKEN_DIR
//	CAMPAIGN_OWNER, CAMPAIGN_OUTLET, CAMPAIGN_TOWN
//	INBOXAGENT_SCHEDULE, INBOXAGENT_METRICS_ADDR
//
// Secrets are best kept in the environment rather than in the file.
package config

package types

type contextKey string

// ClientAppKey ключ контекста, под которым команды получают *client.App
const ClientAppKey contextKey = "client_app"

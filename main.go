package main

import (
	"log"
	"os"

	"github.com/allylabs/allychat/webui"
	"github.com/joho/godotenv"
	"github.com/mudler/xlog"
)

var (
	openaiAPIKey = os.Getenv("OPENAI_API_KEY")
	openaiAPIURL = os.Getenv("ALLYCHAT_LLM_API_URL")
	tavilyAPIKey = os.Getenv("TAVILY_API_KEY")
	emailUser    = os.Getenv("EMAIL_USER")
	emailPass    = os.Getenv("EMAIL_PASS")
	smtpAddr     = os.Getenv("SMTP_ADDR")
	model        = os.Getenv("ALLYCHAT_MODEL")
	timeout      = os.Getenv("ALLYCHAT_TIMEOUT")
	promptURL    = os.Getenv("ALLYCHAT_PROMPT_URL")
	listenAddr   = os.Getenv("ALLYCHAT_LISTEN_ADDR")
)

func init() {
	_ = godotenv.Load()

	// Env vars resolved before godotenv in some setups, re-read them all.
	openaiAPIKey = os.Getenv("OPENAI_API_KEY")
	openaiAPIURL = os.Getenv("ALLYCHAT_LLM_API_URL")
	tavilyAPIKey = os.Getenv("TAVILY_API_KEY")
	emailUser = os.Getenv("EMAIL_USER")
	emailPass = os.Getenv("EMAIL_PASS")
	smtpAddr = os.Getenv("SMTP_ADDR")
	model = os.Getenv("ALLYCHAT_MODEL")
	timeout = os.Getenv("ALLYCHAT_TIMEOUT")
	promptURL = os.Getenv("ALLYCHAT_PROMPT_URL")
	listenAddr = os.Getenv("ALLYCHAT_LISTEN_ADDR")

	if listenAddr == "" {
		listenAddr = ":3000"
	}
}

func main() {
	// Missing provider credentials are reported per request by the chat
	// endpoint, so the server always comes up.
	app := webui.NewApp(
		webui.WithOpenAI(openaiAPIKey, openaiAPIURL),
		webui.WithTavily(tavilyAPIKey, ""),
		webui.WithEmailCredentials(emailUser, emailPass),
		webui.WithSMTPAddr(smtpAddr),
		webui.WithModel(model),
		webui.WithTimeout(timeout),
		webui.WithPromptURL(promptURL),
	)

	xlog.Info("Ally Gaming Assistant listening", "addr", listenAddr)
	log.Fatal(app.Listen(listenAddr))
}

package handler

import (
	"relaychat/internal/app/chat"
	"relaychat/internal/app/storage"
	"relaychat/internal/app/store"
	"relaychat/internal/app/translate"
	"relaychat/internal/configs"
	"relaychat/internal/pkg/auth/jwt"
	"relaychat/internal/pkg/pow"
)

// AppDeps is everything the handlers need, built once in main.
type AppDeps struct {
	Hub        *chat.Hub
	Config     *configs.AppConfig
	Store      store.Store
	Blobs      storage.BlobStore
	Verifier   jwt.Verifier
	Pow        *pow.Guard
	Translator *translate.Client
}

package main

import (
	"context"

	"cloud.google.com/go/firestore"
	fbauth "firebase.google.com/go/v4/auth"

	"resortbooking/internal/config"
	"resortbooking/internal/database"
)

type firebaseClients struct {
	auth  *fbauth.Client
	store *firestore.Client
}

func newFirebaseClients(ctx context.Context, cfg *config.Config) (*firebaseClients, error) {
	app, err := database.NewFirebaseApp(ctx, cfg.FirebaseCredentialsFile, cfg.FirebaseProjectID)
	if err != nil {
		return nil, err
	}

	out := &firebaseClients{}
	if cfg.AuthProvider == "firebase" {
		if out.auth, err = app.Auth(ctx); err != nil {
			return nil, err
		}
	}
	if cfg.StoreDriver == "firestore" {
		if out.store, err = app.Firestore(ctx); err != nil {
			return nil, err
		}
	}
	return out, nil
}

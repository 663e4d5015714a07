// Package main: WebSocket Hub callback wire-up.
//
// registerHubCallbacks, Hub'ın bağlantı ve tercih callback'lerini ayarlar.
//
// Hub ws paketinde yaşıyor, ama tercihler service katmanında.
// Hub'ın service'lere bağımlı olmasını istemiyoruz (Dependency Inversion);
// main package wire-up noktasıdır.
//
// Callback'ler Hub.Run() goroutine'inden ayrı goroutine'de çalışır,
// böylece Hub'ın mutex Lock'u ile BroadcastToSession'ın RLock'u çakışmaz.
package main

import (
	"context"
	"log"

	"github.com/akinalp/personel/models"
	"github.com/akinalp/personel/services"
	"github.com/akinalp/personel/ws"
)

// registerHubCallbacks, tüm Hub callback'lerini register eder.
// hub.Run()'dan ÖNCE çağrılmalı.
func registerHubCallbacks(hub *ws.Hub, svcs *Services) {
	// İlk event: oturum + mevcut dil ve görünüm modu
	hub.OnConnect(func(sessionID string) {
		hub.BroadcastToSession(sessionID, ws.Event{
			Op: ws.OpReady,
			Data: ws.ReadyData{
				SessionID: sessionID,
				Language:  svcs.Language.Current(),
				ViewMode:  svcs.ViewMode.Current(),
			},
		})
	})

	// Client dil değiştirir → service persist eder ve language_change yayınlar
	hub.OnLanguageUpdate(func(sessionID, lang string) {
		if err := svcs.Language.Set(context.Background(), lang); err != nil {
			log.Printf("[ws] language update rejected session=%s: %v", sessionID, err)
		}
	})

	hub.OnViewModeUpdate(func(sessionID, raw string) {
		mode, ok := models.ParseViewMode(raw)
		if !ok {
			log.Printf("[ws] unknown view mode %q from session=%s", raw, sessionID)
			return
		}
		if err := svcs.ViewMode.Set(context.Background(), mode); err != nil {
			log.Printf("[ws] view mode update failed session=%s: %v", sessionID, err)
		}
	})
}

// watchLanguage, dil değişikliklerini process içinde dinleyip loglar.
// Dönen fonksiyon aboneliği bitirir.
func watchLanguage(language services.LanguageService) (stop func()) {
	changes, unsubscribe := language.Subscribe()

	go func() {
		for lang := range changes {
			log.Printf("[i18n] active language is now %s (%s)", lang, language.Localizer().T("nav.employees"))
		}
	}()

	return unsubscribe
}

package core

import (
	"context"

	"pkt.systems/codexpad/internal/logx"
	"pkt.systems/codexpad/internal/persist"
	"pkt.systems/codexpad/schema"
	"pkt.systems/pslog"
)

func (s *service) GetSettings(ctx context.Context, req schema.GetSettingsRequest) (schema.GetSettingsResponse, error) {
	_ = ctx
	_ = req
	s.mu.Lock()
	defer s.mu.Unlock()
	return schema.GetSettingsResponse{Settings: s.settings, Theme: s.theme}, nil
}

func (s *service) UpdateSettings(ctx context.Context, req schema.UpdateSettingsRequest) (schema.UpdateSettingsResponse, error) {
	log := logx.Ctx(ctx)

	s.mu.Lock()
	next, err := schema.ApplySettingsPatch(s.settings, req.Patch)
	if err != nil {
		current := s.settings
		s.mu.Unlock()
		log.Info("service settings rejected", "err", err)
		return schema.UpdateSettingsResponse{Settings: current}, err
	}
	changed := next != s.settings
	s.settings = next
	event := schema.SettingsEvent{Settings: next, Theme: s.theme}
	s.mu.Unlock()

	if changed {
		s.emitSettingsEvent(event)
		s.persistPreferences(log)
	}
	log.Debug("service settings updated", "font_size", next.FontSize, "font_family", next.FontFamily, "word_wrap", next.WordWrap, "auto_save", next.AutoSave)
	return schema.UpdateSettingsResponse{Settings: next}, nil
}

func (s *service) SetTheme(ctx context.Context, req schema.SetThemeRequest) (schema.SetThemeResponse, error) {
	log := logx.Ctx(ctx)
	theme, ok := schema.NormalizeThemeName(string(req.Theme))
	if !ok {
		return schema.SetThemeResponse{}, schema.ErrInvalidTheme
	}

	s.mu.Lock()
	changed := theme != s.theme
	s.theme = theme
	event := schema.SettingsEvent{Settings: s.settings, Theme: theme}
	s.mu.Unlock()

	if changed {
		s.emitSettingsEvent(event)
		s.persistPreferences(log)
	}
	log.Debug("service theme set", "theme", theme)
	return schema.SetThemeResponse{Theme: theme}, nil
}

func (s *service) loadPreferences() {
	if s.store == nil {
		return
	}
	prefs, ok, err := s.store.Load(s.cfg.Profile)
	if err != nil {
		s.logger.Warn("service preferences load failed", "err", err)
		return
	}
	if !ok {
		return
	}
	settings, err := schema.NormalizeSettings(prefs.Settings)
	if err != nil {
		s.logger.Warn("service preferences ignored", "err", err)
	} else {
		s.settings = settings
	}
	if theme, ok := schema.NormalizeThemeName(string(prefs.Theme)); ok {
		s.theme = theme
	}
}

func (s *service) persistPreferences(log pslog.Logger) {
	if s.store == nil {
		return
	}
	s.mu.Lock()
	prefs := persist.Preferences{Settings: s.settings, Theme: s.theme}
	s.mu.Unlock()
	if err := s.store.Save(s.cfg.Profile, prefs); err != nil {
		log.Warn("service persist failed", "err", err)
		return
	}
	log.Trace("service preferences persisted")
}

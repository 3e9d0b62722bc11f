// Package foundations provides layered configurations: a tree built from an
// optional backing file plus an ordered list of default sources, where later
// sources override earlier ones.
//
// Quick Start:
//
//	messages, _ := message.LoadDefault()
//
//	cfg, err := foundations.NewPersistentBuilder(messages).
//	    File("config/global.yaml").
//	    DefaultLocator("embed:defaults/global.yaml", foundations.WithFS(assets)).
//	    DefaultLocator("env:APP_").
//	    Build(logger)
//
//	cfg.Load(ctx)
//	tree, _ := cfg.Get()
//	cfg.Save()
//
// Load and Save never return errors. Failures are logged with the
// configuration's config_id and are available from LastLoad and SaveErr.
//
// Source locators: embed:path, env:PREFIX, file:///path or a bare path, http(s)://url.
package foundations

// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package backup

// CollectImageURLs walks a snapshot and returns every image URL it
// references, deduplicated, in first-seen order. Sources are the
// profile avatar, game covers, banners, screenshots and artworks, and
// movie covers and backdrops. Nil and empty fields are skipped.
//
// The function is pure: it reads the snapshot and touches nothing
// else. Order is deterministic for a given snapshot, which keeps the
// builder's batch layout reproducible in tests.
func CollectImageURLs(snap *Snapshot) []string {
	var urls []string
	seen := make(map[string]bool)

	add := func(url string) {
		if url == "" || seen[url] {
			return
		}
		seen[url] = true
		urls = append(urls, url)
	}
	addPtr := func(url *string) {
		if url != nil {
			add(*url)
		}
	}

	if snap.User != nil {
		addPtr(snap.User.AvatarURL)
	}

	for i := range snap.UserGames {
		game := snap.UserGames[i].Game
		if game == nil {
			continue
		}
		addPtr(game.CoverURL)
		addPtr(game.BannerURL)
		for _, u := range game.Screenshots {
			add(u)
		}
		for _, u := range game.Artworks {
			add(u)
		}
	}

	for i := range snap.UserMovies {
		movie := snap.UserMovies[i].Movie
		if movie == nil {
			continue
		}
		addPtr(movie.CoverURL)
		addPtr(movie.BackdropURL)
	}

	return urls
}

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cardsplice/internal/anki"
	"cardsplice/internal/config"
	"cardsplice/internal/player"
	"cardsplice/internal/session"
	"cardsplice/internal/subs"
	"cardsplice/internal/translate"
	"cardsplice/internal/ui"
	"cardsplice/internal/youtube"
)

const VERSION = "0.1.0"

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	BulletStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1)
	TextStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	DimTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func main() {
	fmt.Println(BulletStyle.Render("┌") + TitleStyle.Render("cardsplice"))

	var audioPath string
	var subsPath string
	var transPath string
	var videoPath string
	var url string
	var seek string
	var version bool

	flag.StringVar(&audioPath, "audio", "", "Audio file used as the playback clock")
	flag.StringVar(&subsPath, "subs", "", "Subtitle file in the language being learned (srt, vtt)")
	flag.StringVar(&transPath, "trans", "", "Subtitle file with translations (srt, vtt)")
	flag.StringVar(&videoPath, "video", "", "Optional video file shown in a synced mpv window")
	flag.StringVar(&seek, "seek", "", "Start position (h:mm:ss.s, mm:ss.s or seconds)")
	flag.StringVar(&url, "url", "", "YouTube URL; captions and audio are fetched with yt-dlp")
	flag.BoolVar(&version, "version", false, "Show version info")
	flag.Usage = usage
	flag.Parse()

	if version {
		fmt.Println(BulletStyle.Render("└") + TextStyle.Render(VERSION))
		os.Exit(0)
	}

	logFile, err := config.InitLogging()
	if err != nil {
		fmt.Println(BulletStyle.Render("├") + ErrorStyle.Render("Logging disabled: "+err.Error()))
		zerolog.SetGlobalLevel(zerolog.Disabled)
	} else {
		defer logFile.Close()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(BulletStyle.Render("├") + ErrorStyle.Render("Config problem, using defaults: "+err.Error()))
	}

	if !checkDependency("mpv") {
		fmt.Println(BulletStyle.Render("└") + ErrorStyle.Render("mpv is required but was not found in PATH."))
		os.Exit(1)
	}

	// No source given: pick up where the last session left off.
	if url == "" && audioPath == "" && videoPath == "" && cfg.LastAudio != "" {
		audioPath = cfg.LastAudio
		if subsPath == "" {
			subsPath = cfg.LastSubs
		}
		if transPath == "" {
			transPath = cfg.LastTrans
		}
		if videoPath == "" {
			videoPath = cfg.LastVideo
		}
		fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Resuming last session: "+filepath.Base(audioPath)))
	}

	var original subs.Track
	var translation subs.Track
	var title string
	var sourceLang string
	var videoTarget string

	switch {
	case url != "":
		if !checkDependency("yt-dlp") {
			fatal("yt-dlp is required for YouTube sources but was not found in PATH.")
		}
		fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Probing video with yt-dlp..."))
		video, err := youtube.Probe(url)
		if err != nil {
			fatal(err.Error())
		}
		title = video.Title
		sourceLang = video.Language
		videoTarget = "ytdl://" + video.ID

		if len(video.Original) == 0 {
			fatal("no captions found in the video language; download subtitles and use -subs instead")
		}
		original, err = youtube.FetchCaptions(video.Original[0])
		if err != nil {
			fatal(err.Error())
		}
		if len(video.Translations) > 0 {
			translation, err = youtube.FetchCaptions(video.Translations[0])
			if err != nil {
				fmt.Println(BulletStyle.Render("├") + ErrorStyle.Render("Translation captions failed: "+err.Error()))
			}
		}

		if audioPath == "" {
			cacheDir, err := os.UserCacheDir()
			if err != nil {
				fatal(err.Error())
			}
			cacheDir = filepath.Join(cacheDir, "cardsplice")
			if err := os.MkdirAll(cacheDir, 0755); err != nil {
				fatal(err.Error())
			}
			fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Downloading audio with yt-dlp, this can take a while..."))
			audioPath, err = youtube.DownloadAudio(url, cacheDir)
			if err != nil {
				fatal(err.Error())
			}
		}

	case subsPath != "":
		original, err = subs.Load(subsPath)
		if err != nil {
			fatal(err.Error())
		}
		if transPath != "" {
			translation, err = subs.Load(transPath)
			if err != nil {
				fatal(err.Error())
			}
		}
		title = strings.TrimSuffix(filepath.Base(subsPath), filepath.Ext(subsPath))

	default:
		flag.Usage()
		os.Exit(0)
	}

	if len(original) == 0 {
		fatal("no subtitle entries found")
	}
	if len(translation) > 0 {
		for _, issue := range subs.ValidatePair(original, translation) {
			fmt.Println(BulletStyle.Render("├") + DimTextStyle.Render("Warning: "+issue))
		}
	}
	aligned := subs.AlignTranslations(original, translation, subs.AlignTolerance)

	if !checkDependency("ffmpeg") {
		fmt.Println(BulletStyle.Render("├") + DimTextStyle.Render("ffmpeg missing, card audio clips will fail."))
	}
	ankiClient := anki.New(cfg.AnkiURL)
	if err := ankiClient.Ping(); err != nil {
		fmt.Println(BulletStyle.Render("├") + DimTextStyle.Render("AnkiConnect not reachable, start Anki before creating cards."))
		log.Debug().Err(err).Msg("anki ping failed")
	}

	var translator *translate.Client
	if key, err := config.APIKey(false); err == nil {
		translator = translate.New(key)
	} else {
		fmt.Println(BulletStyle.Render("├") + DimTextStyle.Render("No OpenAI API key, machine translation disabled."))
	}

	clipDir, err := os.MkdirTemp("", "cardsplice-clips-")
	if err != nil {
		fatal(err.Error())
	}
	defer os.RemoveAll(clipDir)

	var audioPlayer *player.Player
	if audioPath != "" {
		if _, err := os.Stat(audioPath); os.IsNotExist(err) {
			fatal("audio file '" + audioPath + "' does not exist.")
		}
		audioPlayer, err = player.Start(player.Options{})
		if err != nil {
			fatal(err.Error())
		}
		defer audioPlayer.Close()
		audioPlayer.Load(audioPath)
	}

	if videoPath != "" {
		videoTarget = videoPath
	}
	var videoPlayer *player.Player
	if videoTarget != "" {
		videoPlayer, err = player.Start(player.Options{Video: true, Title: "cardsplice: " + title})
		if err != nil {
			if audioPlayer == nil {
				fatal(err.Error())
			}
			fmt.Println(BulletStyle.Render("├") + ErrorStyle.Render("Video window failed: "+err.Error()))
		} else {
			defer videoPlayer.Close()
			videoPlayer.Load(videoTarget)
		}
	}

	if audioPlayer == nil && videoPlayer == nil {
		fatal("nothing to play; give -audio, -video or -url")
	}

	var sess *session.Session
	if audioPlayer != nil {
		sess = session.New(audioPlayer)
	} else {
		sess = session.New(nil)
	}
	if videoPlayer != nil {
		sess.AttachVideo(videoPlayer)
	}
	sess.SetMargin(cfg.Margin)
	sess.SetAutoPause(cfg.AutoPause)
	sess.LoadTracks(original, aligned)

	if seek != "" {
		if sec, err := subs.ParseTimestamp(seek); err != nil {
			fmt.Println(BulletStyle.Render("├") + ErrorStyle.Render(err.Error()))
		} else {
			sess.Dispatch(session.Navigate{Delta: original.IndexAt(sec)})
		}
	}

	if subsPath != "" {
		cfg.LastAudio = audioPath
		cfg.LastSubs = subsPath
		cfg.LastTrans = transPath
		cfg.LastVideo = videoPath
		if err := cfg.Save(); err != nil {
			log.Warn().Err(err).Msg("failed to save config")
		}
	}

	model := ui.New(ui.Options{
		Session:    sess,
		Config:     cfg,
		Anki:       ankiClient,
		Translator: translator,
		AudioPath:  audioPath,
		ClipDir:    clipDir,
		Title:      title,
		SourceLang: sourceLang,
	})

	prog := tea.NewProgram(model, tea.WithAltScreen())
	if audioPlayer != nil {
		go ui.PumpAudio(prog, audioPlayer.Events())
	}
	if videoPlayer != nil {
		go ui.PumpVideo(prog, videoPlayer.Events())
	}

	if _, err := prog.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
	}
}

func usage() {
	fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Usage: cardsplice [options]"))
	fmt.Println(BulletStyle.Render("│"))
	fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Options:"))
	fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("-audio") + DimTextStyle.Render("    audio file used as the playback clock"))
	fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("-subs") + DimTextStyle.Render("     subtitle file in the language being learned (srt, vtt)"))
	fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("-trans") + DimTextStyle.Render("    subtitle file with translations"))
	fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("-video") + DimTextStyle.Render("    optional video file shown in a synced mpv window"))
	fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("-url") + DimTextStyle.Render("      YouTube URL, captions and audio fetched with yt-dlp"))
	fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("-seek") + DimTextStyle.Render("     start position (h:mm:ss.s, mm:ss.s or seconds)"))
	fmt.Println(BulletStyle.Render("│"))
	fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Requirements:"))

	dependencies := []string{"mpv", "ffmpeg", "yt-dlp"}
	for _, dependency := range dependencies {
		status := "✔ installed"
		if !checkDependency(dependency) {
			status = "✗ missing"
		}
		spaces := strings.Repeat(" ", 10-len(dependency))
		fmt.Println(BulletStyle.Render("├────") + TextStyle.Render(dependency) + DimTextStyle.Render(spaces+status))
	}

	fmt.Println(BulletStyle.Render("│"))
	fmt.Println(BulletStyle.Render("└") + TextStyle.Render("Example:") + DimTextStyle.Render(" cardsplice -audio ep1.mp3 -subs ep1.es.srt -trans ep1.en.srt"))
}

func checkDependency(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

func fatal(message string) {
	fmt.Println(BulletStyle.Render("└") + ErrorStyle.Render(message))
	os.Exit(1)
}

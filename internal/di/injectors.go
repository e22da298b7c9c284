//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"auroscope/internal"
	"auroscope/internal/bot"
	"auroscope/internal/controllers"
	"auroscope/internal/nocodb"
	"auroscope/internal/providers"
	"auroscope/internal/render"
	"auroscope/internal/schedule"
	"auroscope/internal/schedule/interfaces"
	"auroscope/internal/services"
	"auroscope/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewMetricsProvider,

		nocodb.NewClient,
		wire.Bind(new(nocodb.ClientInterface), new(*nocodb.Client)),
		services.NewAggregator,
		wire.Bind(new(services.AggregatorInterface), new(*services.Aggregator)),
		render.NewCsvRenderer,
		wire.Bind(new(render.CsvRendererInterface), new(*render.CsvRenderer)),
		render.NewChartRenderer,
		wire.Bind(new(render.ChartRendererInterface), new(*render.ChartRenderer)),
		services.NewReportService,
		wire.Bind(new(services.ReportServiceInterface), new(*services.ReportService)),

		bot.NewTelegramAPI,
		wire.Bind(new(bot.SenderInterface), new(*tgbotapi.BotAPI)),
		wire.Bind(new(bot.UpdatesSourceInterface), new(*tgbotapi.BotAPI)),
		bot.NewBot,
		wire.Bind(new(interfaces.BroadcasterInterface), new(*bot.Bot)),

		schedule.NewZstdCompressor,
		schedule.NewFileManager,
		schedule.NewScheduler,
		wire.Bind(new(interfaces.SchedulerInterface), new(*schedule.Scheduler)),

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

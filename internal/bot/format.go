package bot

import (
	"auroscope/internal/models"
	"fmt"
	"html"
	"strings"
)

const (
	reportTitle = "Статистика по отчету"
	dailyTitle  = "Ежедневный отчет"

	accessDeniedText   = "❌ У вас нет доступа к этому боту."
	unknownCommandText = "🤔 Неизвестная команда. Список команд: /help"
	busyText           = "⏳ Этот отчет уже генерируется, дождитесь результата."
	progressText       = "🔄 Генерирую отчет: %s"
	failedText         = "❌ Ошибка при генерации отчета: %v"
	readyText          = "✅ Отчет готов! Отправляю файлы..."
	doneText           = "✨ Отчет успешно отправлен!"
	dailyFilesText     = "📊 Ежедневный отчет: %s"
	csvCaption         = "📄 CSV данные"
	pdfCaption         = "📊 PDF с графиками"
)

func welcomeText(at string) string {
	return fmt.Sprintf("👋 Привет! Я бот для генерации отчетов AuroScope.\n\n"+
		"🕐 Автоматические отчеты отправляются каждый день в %s МСК\n\n"+
		"📊 Доступные команды:\n"+
		"/today - Отчет за сегодня\n"+
		"/yesterday - Отчет за вчера\n"+
		"/week - Отчет за последние 7 дней\n"+
		"/month - Отчет за последние 30 дней\n"+
		"/quarter - Отчет за последние 90 дней\n"+
		"/halfyear - Отчет за последние 180 дней\n"+
		"/year - Отчет за последние 365 дней\n\n"+
		"/help - Подробная справка", at)
}

func helpText(at string) string {
	return fmt.Sprintf("📊 Справка по командам:\n\n"+
		"/today - Отчет за сегодняшний день\n"+
		"/yesterday - Отчет за вчерашний день\n"+
		"/week - Отчет за последние 7 дней, включая сегодня\n"+
		"/month - Отчет за последние 30 дней\n"+
		"/quarter - Отчет за последние 90 дней\n"+
		"/halfyear - Отчет за последние 180 дней\n"+
		"/year - Отчет за последние 365 дней\n\n"+
		"Каждая команда генерирует:\n"+
		"✅ CSV файл с данными\n"+
		"✅ PDF файл с графиком по часам\n\n"+
		"📅 Автоматические отчеты отправляются ежедневно в %s МСК", at)
}

// FormatStats renders stats as a Telegram HTML message. Club names are escaped, everything else is numeric.
func FormatStats(title string, stats *models.ReportStats) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📊 <b>%s</b>\n\n", html.EscapeString(title))
	fmt.Fprintf(&sb, "📈 Всего генераций: <b>%d</b>\n", stats.TotalRecords)
	fmt.Fprintf(&sb, "👥 Уникальных клиентов: <b>%d</b>\n\n", stats.UniqueClients)
	fmt.Fprintf(&sb, "🔴 Низкая аура (&lt;60%%): <b>%d</b>\n", stats.LowAura)
	fmt.Fprintf(&sb, "🟡 Нормальная аура (60-80%%): <b>%d</b>\n", stats.NormalAura)
	fmt.Fprintf(&sb, "🟢 Высокая аура (&gt;80%%): <b>%d</b>", stats.HighAura)

	if len(stats.ClubStats) > 0 {
		sb.WriteString("\n\n📍 <b>Статистика по комплексам:</b>\n")
		for _, club := range stats.ClubStats {
			fmt.Fprintf(&sb, "\n🏢 <i>%s</i>\n   Генераций: <b>%d</b> (%.1f%%)\n   Клиентов: <b>%d</b>",
				html.EscapeString(club.ClubName), club.TotalGenerations, club.Percentage, club.UniqueClients)
		}
	}

	if stats.AvgGenerationTime > 0 {
		fmt.Fprintf(&sb, "\n\n⏱ <b>Среднее время генерации:</b> %.1f сек", stats.AvgGenerationTime)
	}

	fmt.Fprintf(&sb, "\n\n📋 <b>Статусы генераций:</b>\n   ✅ Done: <b>%d</b> (%.1f%%)\n   ⏳ Process: <b>%d</b> (%.1f%%)",
		stats.DoneCount, stats.DonePercentage, stats.ProcessCount, stats.ProcessPercentage)

	return sb.String()
}

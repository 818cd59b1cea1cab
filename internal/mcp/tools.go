package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskgrid/internal/desktop"
	"github.com/1broseidon/deskgrid/internal/ipc"
)

func (s *Server) handleListDesktops(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListDesktopsInput) (*mcpsdk.CallToolResult, ListDesktopsOutput, error) {
	st, err := s.backend.GetStatus()
	if err != nil {
		return nil, ListDesktopsOutput{}, err
	}
	return nil, ListDesktopsOutput{
		Count:      st.Count,
		Current:    st.Current,
		Rows:       st.Rows,
		Columns:    st.Columns,
		WrapAround: st.WrapAround,
		Desktops:   st.Desktops,
		Grid:       st.Grid,
	}, nil
}

func (s *Server) handleSwitchDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args SwitchDesktopInput) (*mcpsdk.CallToolResult, SwitchOutput, error) {
	if args.Desktop == 0 {
		return nil, SwitchOutput{}, fmt.Errorf("desktop numbers start at 1")
	}
	st, err := s.backend.GetStatus()
	if err != nil {
		return nil, SwitchOutput{}, err
	}
	if args.Desktop > st.Count {
		return nil, SwitchOutput{}, fmt.Errorf("desktop %d does not exist (have %d)", args.Desktop, st.Count)
	}
	res, err := s.backend.SetCurrent(args.Desktop)
	if err != nil {
		return nil, SwitchOutput{}, err
	}
	s.logger.Info("mcp switch_desktop", "desktop", args.Desktop, "changed", res.Changed)
	return nil, s.switchOutput(res, st), nil
}

func (s *Server) handleNavigateDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args NavigateDesktopInput) (*mcpsdk.CallToolResult, SwitchOutput, error) {
	dir, err := desktop.ParseDirection(args.Direction)
	if err != nil {
		return nil, SwitchOutput{}, err
	}
	res, err := s.backend.Move(dir)
	if err != nil {
		return nil, SwitchOutput{}, err
	}
	st, err := s.backend.GetStatus()
	if err != nil {
		return nil, SwitchOutput{}, err
	}
	s.logger.Info("mcp navigate_desktop", "direction", dir, "current", res.Current)
	return nil, s.switchOutput(res, st), nil
}

func (s *Server) switchOutput(res *ipc.SwitchData, st *ipc.StatusData) SwitchOutput {
	name := st.DesktopName(res.Current)
	if name == "" {
		name = desktop.DefaultName(res.Current)
	}
	return SwitchOutput{Changed: res.Changed, Current: res.Current, Name: name}
}

func (s *Server) handleSetDesktopCount(_ context.Context, _ *mcpsdk.CallToolRequest, args SetDesktopCountInput) (*mcpsdk.CallToolResult, SetDesktopCountOutput, error) {
	count, err := s.backend.SetCount(args.Count)
	if err != nil {
		return nil, SetDesktopCountOutput{}, err
	}
	s.logger.Info("mcp set_desktop_count", "requested", args.Count, "count", count)
	return nil, SetDesktopCountOutput{Count: count}, nil
}

func (s *Server) handleRenameDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args RenameDesktopInput) (*mcpsdk.CallToolResult, RenameDesktopOutput, error) {
	if args.Desktop == 0 {
		return nil, RenameDesktopOutput{}, fmt.Errorf("desktop numbers start at 1")
	}
	if err := s.backend.Rename(args.Desktop, args.Name); err != nil {
		return nil, RenameDesktopOutput{}, err
	}
	name := args.Name
	if name == "" {
		name = desktop.DefaultName(args.Desktop)
	}
	return nil, RenameDesktopOutput{Desktop: args.Desktop, Name: name}, nil
}

func (s *Server) handleSetRows(_ context.Context, _ *mcpsdk.CallToolRequest, args SetRowsInput) (*mcpsdk.CallToolResult, SetRowsOutput, error) {
	rows, err := s.backend.SetRows(args.Rows)
	if err != nil {
		return nil, SetRowsOutput{}, err
	}
	if rows != args.Rows {
		return nil, SetRowsOutput{}, fmt.Errorf("rows %d rejected; keeping %d", args.Rows, rows)
	}
	st, err := s.backend.GetStatus()
	if err != nil {
		return nil, SetRowsOutput{}, err
	}
	return nil, SetRowsOutput{Rows: rows, Columns: st.Columns}, nil
}

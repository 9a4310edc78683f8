package utilization

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/account-scout/pkg/models/domain"
	"github.com/de-tools/account-scout/pkg/services/awscfg"
	"github.com/rs/zerolog"
)

// EC2API is the slice of the EC2 client the analyzer needs.
type EC2API interface {
	DescribeInstances(
		ctx context.Context,
		params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeInstancesOutput, error)
}

// RDSAPI is the slice of the RDS client the analyzer needs.
type RDSAPI interface {
	DescribeDBInstances(
		ctx context.Context,
		params *rds.DescribeDBInstancesInput,
		optFns ...func(*rds.Options),
	) (*rds.DescribeDBInstancesOutput, error)
}

// LambdaAPI is the slice of the Lambda client the analyzer needs.
type LambdaAPI interface {
	ListFunctions(
		ctx context.Context,
		params *lambda.ListFunctionsInput,
		optFns ...func(*lambda.Options),
	) (*lambda.ListFunctionsOutput, error)
}

// S3API is the slice of the S3 client the analyzer needs.
type S3API interface {
	ListBuckets(
		ctx context.Context,
		params *s3.ListBucketsInput,
		optFns ...func(*s3.Options),
	) (*s3.ListBucketsOutput, error)
	ListObjectsV2(
		ctx context.Context,
		params *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options),
	) (*s3.ListObjectsV2Output, error)
}

// CloudWatchAPI is the slice of the CloudWatch client the analyzer needs.
type CloudWatchAPI interface {
	GetMetricStatistics(
		ctx context.Context,
		params *cloudwatch.GetMetricStatisticsInput,
		optFns ...func(*cloudwatch.Options),
	) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// Analyzer finds underutilized compute, database, function, and storage
// resources by correlating inventories with CloudWatch metrics.
type Analyzer struct {
	ec2        EC2API
	rds        RDSAPI
	lambda     LambdaAPI
	s3         S3API
	cloudwatch CloudWatchAPI
	settings   Settings
	now        func() time.Time
}

func NewAnalyzer(
	ec2Client EC2API,
	rdsClient RDSAPI,
	lambdaClient LambdaAPI,
	s3Client S3API,
	cwClient CloudWatchAPI,
	settings Settings,
) *Analyzer {
	return &Analyzer{
		ec2:        ec2Client,
		rds:        rdsClient,
		lambda:     lambdaClient,
		s3:         s3Client,
		cloudwatch: cwClient,
		settings:   settings,
		now:        time.Now,
	}
}

// AnalyzerFactory builds an analyzer backed by real AWS clients for the
// given shared-config profile.
func AnalyzerFactory(ctx context.Context, profile string, settings Settings) (*Analyzer, error) {
	cfg, err := awscfg.Load(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return NewAnalyzer(
		ec2.NewFromConfig(*cfg),
		rds.NewFromConfig(*cfg),
		lambda.NewFromConfig(*cfg),
		s3.NewFromConfig(*cfg),
		cloudwatch.NewFromConfig(*cfg),
		settings,
	), nil
}

// Run executes all four checks. A failing check contributes an empty list
// and a warning log entry; the remaining checks still run.
func (a *Analyzer) Run(ctx context.Context) domain.UtilizationReport {
	logger := zerolog.Ctx(ctx)
	report := domain.UtilizationReport{}

	instances, err := a.UnderusedInstances(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("EC2 utilization check failed")
	}
	report.Instances = instances

	databases, err := a.IdleDatabases(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("RDS utilization check failed")
	}
	report.Databases = databases

	functions, err := a.InactiveFunctions(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Lambda utilization check failed")
	}
	report.Functions = functions

	buckets, err := a.UnusedBuckets(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("S3 utilization check failed")
	}
	report.Buckets = buckets

	return report
}

// UnderusedInstances returns running instances whose mean CPU utilization
// stayed below the configured threshold over the lookback window.
func (a *Analyzer) UnderusedInstances(ctx context.Context) ([]domain.UnderusedInstance, error) {
	resp, err := a.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("instance-state-name"),
				Values: []string{"running"},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe EC2 instances: %w", err)
	}

	end := a.now()
	start := end.AddDate(0, 0, -a.settings.EC2LookbackDays)

	var underused []domain.UnderusedInstance
	for _, reservation := range resp.Reservations {
		for _, instance := range reservation.Instances {
			instanceID := aws.ToString(instance.InstanceId)

			metrics, err := a.cloudwatch.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
				Namespace:  aws.String("AWS/EC2"),
				MetricName: aws.String("CPUUtilization"),
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String("InstanceId"), Value: aws.String(instanceID)},
				},
				StartTime:  aws.Time(start),
				EndTime:    aws.Time(end),
				Period:     aws.Int32(3600),
				Statistics: []cwtypes.Statistic{cwtypes.StatisticAverage},
			})
			if err != nil {
				return nil, fmt.Errorf("failed to get CPU metrics for %s: %w", instanceID, err)
			}
			if len(metrics.Datapoints) == 0 {
				continue
			}

			var sum float64
			for _, point := range metrics.Datapoints {
				sum += aws.ToFloat64(point.Average)
			}
			avg := sum / float64(len(metrics.Datapoints))
			if avg >= a.settings.CPUThresholdPercent {
				continue
			}

			name := "No Name"
			for _, tag := range instance.Tags {
				if aws.ToString(tag.Key) == "Name" {
					name = aws.ToString(tag.Value)
					break
				}
			}

			underused = append(underused, domain.UnderusedInstance{
				InstanceID:   instanceID,
				Name:         name,
				InstanceType: string(instance.InstanceType),
				AverageCPU:   avg,
			})
		}
	}

	return underused, nil
}

// IdleDatabases returns RDS instances whose maximum connection count over
// the lookback window was zero.
func (a *Analyzer) IdleDatabases(ctx context.Context) ([]domain.IdleDatabase, error) {
	resp, err := a.rds.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe DB instances: %w", err)
	}

	end := a.now()
	start := end.AddDate(0, 0, -a.settings.RDSLookbackDays)

	var idle []domain.IdleDatabase
	for _, instance := range resp.DBInstances {
		identifier := aws.ToString(instance.DBInstanceIdentifier)

		metrics, err := a.cloudwatch.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
			Namespace:  aws.String("AWS/RDS"),
			MetricName: aws.String("DatabaseConnections"),
			Dimensions: []cwtypes.Dimension{
				{Name: aws.String("DBInstanceIdentifier"), Value: aws.String(identifier)},
			},
			StartTime:  aws.Time(start),
			EndTime:    aws.Time(end),
			Period:     aws.Int32(3600),
			Statistics: []cwtypes.Statistic{cwtypes.StatisticMaximum},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get connection metrics for %s: %w", identifier, err)
		}
		if len(metrics.Datapoints) == 0 {
			continue
		}

		var max float64
		for _, point := range metrics.Datapoints {
			if v := aws.ToFloat64(point.Maximum); v > max {
				max = v
			}
		}
		if max > 0 {
			continue
		}

		idle = append(idle, domain.IdleDatabase{
			Identifier:    identifier,
			Engine:        aws.ToString(instance.Engine),
			InstanceClass: aws.ToString(instance.DBInstanceClass),
			Status:        aws.ToString(instance.DBInstanceStatus),
		})
	}

	return idle, nil
}

// InactiveFunctions returns Lambda functions with no invocations over the
// lookback window.
func (a *Analyzer) InactiveFunctions(ctx context.Context) ([]domain.InactiveFunction, error) {
	end := a.now()
	start := end.AddDate(0, 0, -a.settings.LambdaLookbackDays)
	window := int32(a.settings.LambdaLookbackDays * 24 * 3600)

	var inactive []domain.InactiveFunction
	var marker *string
	for {
		page, err := a.lambda.ListFunctions(ctx, &lambda.ListFunctionsInput{Marker: marker})
		if err != nil {
			return nil, fmt.Errorf("failed to list functions: %w", err)
		}

		for _, function := range page.Functions {
			name := aws.ToString(function.FunctionName)

			metrics, err := a.cloudwatch.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
				Namespace:  aws.String("AWS/Lambda"),
				MetricName: aws.String("Invocations"),
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String("FunctionName"), Value: aws.String(name)},
				},
				StartTime:  aws.Time(start),
				EndTime:    aws.Time(end),
				Period:     aws.Int32(window),
				Statistics: []cwtypes.Statistic{cwtypes.StatisticSum},
			})
			if err != nil {
				return nil, fmt.Errorf("failed to get invocation metrics for %s: %w", name, err)
			}

			invoked := false
			for _, point := range metrics.Datapoints {
				if aws.ToFloat64(point.Sum) > 0 {
					invoked = true
					break
				}
			}
			if invoked {
				continue
			}

			inactive = append(inactive, domain.InactiveFunction{
				Name:         name,
				Runtime:      string(function.Runtime),
				LastModified: aws.ToString(function.LastModified),
			})
		}

		if page.NextMarker == nil {
			break
		}
		marker = page.NextMarker
	}

	return inactive, nil
}

// UnusedBuckets returns buckets that are empty or show no object count
// datapoints over the lookback window. A bucket whose own checks fail is
// logged and skipped so the remaining buckets are still examined.
func (a *Analyzer) UnusedBuckets(ctx context.Context) ([]domain.UnusedBucket, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := a.s3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	end := a.now()
	start := end.AddDate(0, 0, -a.settings.S3LookbackDays)
	window := int32(a.settings.S3LookbackDays * 24 * 3600)

	var unused []domain.UnusedBucket
	for _, bucket := range resp.Buckets {
		name := aws.ToString(bucket.Name)

		objects, err := a.s3.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:  bucket.Name,
			MaxKeys: aws.Int32(1),
		})
		if err != nil {
			logger.Warn().Str("bucket", name).Err(err).Msg("skipping bucket")
			continue
		}
		if len(objects.Contents) == 0 {
			unused = append(unused, domain.UnusedBucket{
				Name:         name,
				CreationDate: aws.ToTime(bucket.CreationDate),
				Reason:       "Empty bucket",
			})
			continue
		}

		metrics, err := a.cloudwatch.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
			Namespace:  aws.String("AWS/S3"),
			MetricName: aws.String("NumberOfObjects"),
			Dimensions: []cwtypes.Dimension{
				{Name: aws.String("BucketName"), Value: aws.String(name)},
			},
			StartTime:  aws.Time(start),
			EndTime:    aws.Time(end),
			Period:     aws.Int32(window),
			Statistics: []cwtypes.Statistic{cwtypes.StatisticAverage},
		})
		if err != nil {
			logger.Warn().Str("bucket", name).Err(err).Msg("skipping bucket")
			continue
		}

		if len(metrics.Datapoints) == 0 {
			unused = append(unused, domain.UnusedBucket{
				Name:         name,
				CreationDate: aws.ToTime(bucket.CreationDate),
				Reason:       "No recent access",
			})
		}
	}

	return unused, nil
}
